package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

type WinProbabilityQuery struct {
	Venue   string
	League  string
	Target  int
	Over    int
	Ball    int
	Wickets int
	Score   int
	Before  time.Time
	Relaxed bool
}

func (q WinProbabilityQuery) State() match.State {
	return match.State{
		Over:    q.Over,
		Ball:    q.Ball,
		Wickets: q.Wickets,
		Score:   q.Score,
		Target:  q.Target,
	}
}

type WinProbabilityService struct {
	chain     fallbackChain
	estimator *winprob.Estimator
	logger    *logging.Logger
	observer  Observer
}

func NewWinProbabilityService(
	venues *venue.Manager,
	extractor *HistoricalStateExtractor,
	settings LookupSettings,
	logger *logging.Logger,
	observer Observer,
) *WinProbabilityService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WinProbabilityService{
		chain:     fallbackChain{venues: venues, extractor: extractor, settings: settings},
		estimator: winprob.NewEstimator(settings.Tolerances),
		logger:    logger,
		observer:  observerOrNoop(observer),
	}
}

func validateWinProbabilityQuery(q WinProbabilityQuery, format match.Format) error {
	if err := validateLookupContext(q.Venue, q.Before); err != nil {
		return err
	}
	return validateChaseState(q.State(), format)
}

// WinProbability estimates the chasing side's win probability. Decided
// states answer immediately with the heuristic tag.
func (s *WinProbabilityService) WinProbability(ctx context.Context, q WinProbabilityQuery) (fallback.Result[float64], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WinProbabilityService.WinProbability")
	defer span.End()

	format := s.chain.settings.Format
	if err := validateWinProbabilityQuery(q, format); err != nil {
		return fallback.Result[float64]{}, err
	}

	state := q.State()
	if p, ok := winprob.Terminal(state, format); ok {
		result := fallback.Heuristic(p)
		s.observer.ObserveLookup(lookupKindWinProb, string(result.Source))
		return result, nil
	}

	thresholds := s.chain.settings.Thresholds
	levels := s.chain.plan(q.Venue, q.League, q.Before, q.Relaxed)
	result, ok := firstAnswer(ctx, s.chain, levels, func(ctx context.Context, l level) (fallback.Result[float64], bool) {
		outcomes := s.chain.extractor.ChaseOutcomes(ctx, l.scope, l.before, format)
		est, found := s.estimator.Estimate(state, outcomes)
		if !found || est.SampleSize < thresholds.MinWinProbSamples(l.source) {
			return fallback.Result[float64]{}, false
		}
		return fallback.Result[float64]{Value: est.Probability, Source: l.source, SampleSize: est.SampleSize}, true
	})
	if !ok {
		result = fallback.Heuristic(winprob.Heuristic(state, format))
	}

	s.observer.ObserveLookup(lookupKindWinProb, string(result.Source))
	annotateSource(span, string(result.Source), result.SampleSize)
	s.logger.DebugContext(ctx, "win probability lookup answered",
		"venue", q.Venue,
		"source", string(result.Source),
		"sample_size", result.SampleSize,
		"value", result.Value,
	)
	return result, nil
}
