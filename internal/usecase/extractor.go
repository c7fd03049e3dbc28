package usecase

import (
	"context"
	"math"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

// HistoricalStateExtractor is the boundary where store failures become
// "no records". It never returns an error.
type HistoricalStateExtractor struct {
	repo     match.Repository
	logger   *logging.Logger
	observer Observer
}

func NewHistoricalStateExtractor(repo match.Repository, logger *logging.Logger, observer Observer) *HistoricalStateExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoricalStateExtractor{
		repo:     repo,
		logger:   logger,
		observer: observerOrNoop(observer),
	}
}

// MatchStates returns per-(over, wickets) aggregates for one innings, sorted
// by over then wickets. A zero before disables the chronological cutoff.
func (e *HistoricalStateExtractor) MatchStates(ctx context.Context, scope match.Scope, innings int, before time.Time, format match.Format) []match.StateAggregate {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoricalStateExtractor.MatchStates")
	defer span.End()

	items, err := e.repo.ListStateAggregates(ctx, match.StateFilter{
		Scope:   scope,
		Innings: innings,
		Before:  before,
		Format:  format,
	})
	if err != nil {
		e.absorb(ctx, "match_states", scope, err)
		return nil
	}

	out := make([]match.StateAggregate, 0, len(items))
	for _, item := range items {
		if item.Samples <= 0 {
			continue
		}
		item.AvgRunsSoFar = finite(item.AvgRunsSoFar)
		item.AvgFinalScore = finite(item.AvgFinalScore)
		out = append(out, item)
	}
	match.SortStateAggregates(out)
	return out
}

// ChaseOutcomes returns grouped second-innings states of decided matches.
func (e *HistoricalStateExtractor) ChaseOutcomes(ctx context.Context, scope match.Scope, before time.Time, format match.Format) []match.ChaseOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoricalStateExtractor.ChaseOutcomes")
	defer span.End()

	items, err := e.repo.ListChaseOutcomes(ctx, match.ChaseFilter{
		Scope:  scope,
		Before: before,
		Format: format,
	})
	if err != nil {
		e.absorb(ctx, "chase_outcomes", scope, err)
		return nil
	}

	out := make([]match.ChaseOutcome, 0, len(items))
	for _, item := range items {
		if item.Samples > 0 {
			out = append(out, item)
		}
	}
	match.SortChaseOutcomes(out)
	return out
}

func (e *HistoricalStateExtractor) MatchCount(ctx context.Context, scope match.Scope, before time.Time) int {
	count, err := e.repo.CountMatches(ctx, scope, before)
	if err != nil {
		e.absorb(ctx, "match_count", scope, err)
		return 0
	}
	if count < 0 {
		return 0
	}
	return count
}

func (e *HistoricalStateExtractor) absorb(ctx context.Context, operation string, scope match.Scope, err error) {
	e.observer.ObserveDataSourceError(operation)
	e.logger.WarnContext(ctx, "historical data unavailable, treating as empty",
		"operation", operation,
		"scope", scope.Key(),
		"data_source", match.IsDataSource(err),
		"error", err,
	)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
