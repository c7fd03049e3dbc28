// Package guarded bounds every store read with a timeout and a shared
// circuit breaker. Failures come back marked as match.ErrDataSource.
package guarded

import (
	"context"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/platform/resilience"
)

type Guard struct {
	timeout time.Duration
	breaker *resilience.CircuitBreaker
}

// NewGuard accepts a nil breaker; a non-positive timeout keeps the caller's deadline only.
func NewGuard(timeout time.Duration, breaker *resilience.CircuitBreaker) *Guard {
	return &Guard{timeout: timeout, breaker: breaker}
}

func run[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	value, err := resilience.Call(ctx, g.breaker, fn)
	if err != nil {
		var zero T
		return zero, match.MarkDataSource(err)
	}
	return value, nil
}

type MatchRepository struct {
	next  match.Repository
	guard *Guard
}

func NewMatchRepository(next match.Repository, guard *Guard) *MatchRepository {
	return &MatchRepository{next: next, guard: guard}
}

func (r *MatchRepository) ListStateAggregates(ctx context.Context, filter match.StateFilter) ([]match.StateAggregate, error) {
	return run(ctx, r.guard, func(ctx context.Context) ([]match.StateAggregate, error) {
		return r.next.ListStateAggregates(ctx, filter)
	})
}

func (r *MatchRepository) ListChaseOutcomes(ctx context.Context, filter match.ChaseFilter) ([]match.ChaseOutcome, error) {
	return run(ctx, r.guard, func(ctx context.Context) ([]match.ChaseOutcome, error) {
		return r.next.ListChaseOutcomes(ctx, filter)
	})
}

func (r *MatchRepository) CountMatches(ctx context.Context, scope match.Scope, before time.Time) (int, error) {
	return run(ctx, r.guard, func(ctx context.Context) (int, error) {
		return r.next.CountMatches(ctx, scope, before)
	})
}

type LookupRepository struct {
	next  precomputed.Repository
	guard *Guard
}

func NewLookupRepository(next precomputed.Repository, guard *Guard) *LookupRepository {
	return &LookupRepository{next: next, guard: guard}
}

type lookupResult struct {
	row   precomputed.Row
	found bool
}

func (r *LookupRepository) FindLatest(ctx context.Context, q precomputed.Query) (precomputed.Row, bool, error) {
	res, err := run(ctx, r.guard, func(ctx context.Context) (lookupResult, error) {
		row, found, err := r.next.FindLatest(ctx, q)
		return lookupResult{row: row, found: found}, err
	})
	if err != nil {
		return precomputed.Row{}, false, err
	}
	return res.row, res.found, nil
}
