package usecase

import (
	"context"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

// PrecomputedService answers win-probability lookups from materialised
// bucket rows. It never writes and never consults the live aggregates.
type PrecomputedService struct {
	chain    fallbackChain
	repo     precomputed.Repository
	logger   *logging.Logger
	observer Observer
}

func NewPrecomputedService(
	venues *venue.Manager,
	repo precomputed.Repository,
	settings LookupSettings,
	logger *logging.Logger,
	observer Observer,
) *PrecomputedService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PrecomputedService{
		chain:    fallbackChain{venues: venues, settings: settings},
		repo:     repo,
		logger:   logger,
		observer: observerOrNoop(observer),
	}
}

func (s *PrecomputedService) WinProbability(ctx context.Context, q WinProbabilityQuery) (fallback.Result[float64], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PrecomputedService.WinProbability")
	defer span.End()

	format := s.chain.settings.Format
	if err := validateWinProbabilityQuery(q, format); err != nil {
		return fallback.Result[float64]{}, err
	}

	state := q.State()
	if p, ok := winprob.Terminal(state, format); ok {
		result := fallback.Heuristic(p)
		s.observer.ObserveLookup(lookupKindPrecomputed, string(result.Source))
		return result, nil
	}

	result := fallback.Heuristic(winprob.Heuristic(state, format))
	for _, l := range s.chain.plan(q.Venue, q.League, q.Before, q.Relaxed) {
		if ctx.Err() != nil {
			break
		}
		row, found := s.find(ctx, l, q)
		if found {
			result = fallback.Result[float64]{Value: row.WinProbability, Source: l.source, SampleSize: row.SampleSize}
			break
		}
	}

	s.observer.ObserveLookup(lookupKindPrecomputed, string(result.Source))
	annotateSource(span, string(result.Source), result.SampleSize)
	return result, nil
}

// find reads one level. venue_relaxed rows are the venue rows read without
// the data_through_date filter.
func (s *PrecomputedService) find(ctx context.Context, l level, q WinProbabilityQuery) (precomputed.Row, bool) {
	stored := l.source
	if stored == fallback.SourceVenueRelaxed {
		stored = fallback.SourceVenue
	}

	row, found, err := s.repo.FindLatest(ctx, precomputed.Query{
		Level:         stored,
		ScopeKey:      l.scopeKey,
		TargetBucket:  precomputed.TargetBucket(q.Target),
		OverBucket:    precomputed.OverBucket(q.Over),
		WicketsLost:   q.Wickets,
		Score:         q.Score,
		Before:        l.before,
		MinSampleSize: s.chain.settings.Thresholds.MinPrecomputedSamples,
	})
	if err != nil {
		s.observer.ObserveDataSourceError("wp_lookup")
		s.logger.WarnContext(ctx, "precomputed lookup unavailable, falling through",
			"level", string(l.source),
			"scope_key", l.scopeKey,
			"error", err,
		)
		return precomputed.Row{}, false
	}
	return row, found
}
