package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	basecache "github.com/riskibarqy/cricket-context/internal/platform/cache"
)

// MatchRepository caches store aggregates keyed by scope, cutoff and format.
// Derived tables are rebuilt by callers from the cached aggregates.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListStateAggregates(ctx context.Context, filter match.StateFilter) ([]match.StateAggregate, error) {
	key := "states:" + filter.Scope.Key() + ":i=" + strconv.Itoa(filter.Innings) + ":" + cutoffKey(filter.Before) + ":" + formatKey(filter.Format)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]match.StateAggregate, error) {
		items, err := r.next.ListStateAggregates(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]match.StateAggregate(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.StateAggregate(nil), items...), nil
}

func (r *MatchRepository) ListChaseOutcomes(ctx context.Context, filter match.ChaseFilter) ([]match.ChaseOutcome, error) {
	key := "chase:" + filter.Scope.Key() + ":" + cutoffKey(filter.Before) + ":" + formatKey(filter.Format)
	items, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) ([]match.ChaseOutcome, error) {
		items, err := r.next.ListChaseOutcomes(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]match.ChaseOutcome(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.ChaseOutcome(nil), items...), nil
}

func (r *MatchRepository) CountMatches(ctx context.Context, scope match.Scope, before time.Time) (int, error) {
	key := "count:" + scope.Key() + ":" + cutoffKey(before)
	return basecache.Load(ctx, r.cache, key, func(ctx context.Context) (int, error) {
		return r.next.CountMatches(ctx, scope, before)
	})
}

// LookupRepository caches precomputed row reads, including misses.
type LookupRepository struct {
	next  precomputed.Repository
	cache *basecache.Store
}

func NewLookupRepository(next precomputed.Repository, cache *basecache.Store) *LookupRepository {
	return &LookupRepository{next: next, cache: cache}
}

type cachedLookup struct {
	Row   precomputed.Row `json:"row"`
	Found bool            `json:"found"`
}

func (r *LookupRepository) FindLatest(ctx context.Context, q precomputed.Query) (precomputed.Row, bool, error) {
	key := "wp_lookup:" + string(q.Level) + ":" + q.ScopeKey +
		":t=" + strconv.Itoa(q.TargetBucket) +
		":o=" + strconv.Itoa(q.OverBucket) +
		":w=" + strconv.Itoa(q.WicketsLost) +
		":s=" + strconv.Itoa(q.Score) +
		":n=" + strconv.Itoa(q.MinSampleSize) +
		":" + cutoffKey(q.Before)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedLookup, error) {
		row, found, err := r.next.FindLatest(ctx, q)
		if err != nil {
			return cachedLookup{}, err
		}
		return cachedLookup{Row: row, Found: found}, nil
	})
	if err != nil {
		return precomputed.Row{}, false, err
	}
	return cached.Row, cached.Found, nil
}

func cutoffKey(before time.Time) string {
	if before.IsZero() {
		return "relaxed"
	}
	return before.UTC().Format("2006-01-02T15:04:05")
}

func formatKey(f match.Format) string {
	return strconv.Itoa(f.MaxOvers) + "x" + strconv.Itoa(f.BallsPerOver) + "w" + strconv.Itoa(f.MaxWickets)
}
