package usecase

import (
	"context"
	"math"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/resource"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"go.opentelemetry.io/otel/trace"
)

type ResourceQuery struct {
	Venue   string
	League  string
	Innings int
	Over    int
	Wickets int
	Before  time.Time
	Relaxed bool
}

type ResourceService struct {
	chain    fallbackChain
	builder  *resource.Builder
	logger   *logging.Logger
	observer Observer
}

func NewResourceService(
	venues *venue.Manager,
	extractor *HistoricalStateExtractor,
	settings LookupSettings,
	logger *logging.Logger,
	observer Observer,
) *ResourceService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResourceService{
		chain:    fallbackChain{venues: venues, extractor: extractor, settings: settings},
		builder:  resource.NewBuilder(settings.Format, settings.MonotoneResource),
		logger:   logger,
		observer: observerOrNoop(observer),
	}
}

// ResourcePercentage answers from the most specific level whose table has an
// empirically supported cell; the closed-form heuristic is the floor.
func (s *ResourceService) ResourcePercentage(ctx context.Context, q ResourceQuery) (fallback.Result[float64], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResourceService.ResourcePercentage")
	defer span.End()

	format := s.chain.settings.Format
	if err := validateLookupContext(q.Venue, q.Before); err != nil {
		return fallback.Result[float64]{}, err
	}
	if err := validateInnings(q.Innings); err != nil {
		return fallback.Result[float64]{}, err
	}
	if err := validateOverWickets(q.Over, q.Wickets, format); err != nil {
		return fallback.Result[float64]{}, err
	}

	if q.Wickets >= format.MaxWickets {
		return s.finish(ctx, span, fallback.Heuristic(0.0)), nil
	}

	minSupport := s.chain.settings.Thresholds.MinResourceCellSamples
	levels := s.chain.plan(q.Venue, q.League, q.Before, q.Relaxed)
	result, ok := firstAnswer(ctx, s.chain, levels, func(ctx context.Context, l level) (fallback.Result[float64], bool) {
		aggregates := s.chain.extractor.MatchStates(ctx, l.scope, q.Innings, l.before, format)
		if len(aggregates) == 0 {
			return fallback.Result[float64]{}, false
		}
		cell := s.builder.Build(q.Innings, aggregates).At(q.Over, q.Wickets)
		if cell.Origin == resource.OriginHeuristic || cell.Support < minSupport {
			return fallback.Result[float64]{}, false
		}
		return fallback.Result[float64]{Value: cell.Percentage, Source: l.source, SampleSize: cell.Support}, true
	})
	if !ok {
		result = fallback.Heuristic(round2(resource.Heuristic(q.Over, q.Wickets, format)))
	}
	return s.finish(ctx, span, result), nil
}

// Table returns the full grid for the most specific level that passes its
// match-count gate, or an all-heuristic grid. SampleSize is that level's
// match count.
func (s *ResourceService) Table(ctx context.Context, q ResourceQuery) (fallback.Result[resource.Table], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResourceService.Table")
	defer span.End()

	if err := validateLookupContext(q.Venue, q.Before); err != nil {
		return fallback.Result[resource.Table]{}, err
	}
	if err := validateInnings(q.Innings); err != nil {
		return fallback.Result[resource.Table]{}, err
	}

	format := s.chain.settings.Format
	for _, l := range s.chain.plan(q.Venue, q.League, q.Before, q.Relaxed) {
		count, ok := s.chain.enoughMatches(ctx, l)
		if !ok {
			continue
		}
		aggregates := s.chain.extractor.MatchStates(ctx, l.scope, q.Innings, l.before, format)
		if len(aggregates) == 0 {
			continue
		}
		result := fallback.Result[resource.Table]{
			Value:      s.builder.Build(q.Innings, aggregates),
			Source:     l.source,
			SampleSize: count,
		}
		s.observer.ObserveLookup(lookupKindResourceTable, string(result.Source))
		annotateSource(span, string(result.Source), result.SampleSize)
		return result, nil
	}

	s.observer.ObserveLookup(lookupKindResourceTable, string(fallback.SourceHeuristic))
	return fallback.Heuristic(s.builder.Build(q.Innings, nil)), nil
}

func (s *ResourceService) finish(ctx context.Context, span trace.Span, result fallback.Result[float64]) fallback.Result[float64] {
	s.observer.ObserveLookup(lookupKindResource, string(result.Source))
	annotateSource(span, string(result.Source), result.SampleSize)
	s.logger.DebugContext(ctx, "resource lookup answered",
		"source", string(result.Source),
		"sample_size", result.SampleSize,
		"value", result.Value,
	)
	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
