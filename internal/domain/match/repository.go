package match

import (
	"context"
	"time"
)

// StateFilter selects first- or second-innings balls for state aggregation.
// A zero Before disables the chronological cutoff.
type StateFilter struct {
	Scope   Scope
	Innings int
	Before  time.Time
	Format  Format
}

type ChaseFilter struct {
	Scope  Scope
	Before time.Time
	Format Format
}

// Repository is the read-only view of the delivery store.
type Repository interface {
	ListStateAggregates(ctx context.Context, filter StateFilter) ([]StateAggregate, error)
	ListChaseOutcomes(ctx context.Context, filter ChaseFilter) ([]ChaseOutcome, error)
	CountMatches(ctx context.Context, scope Scope, before time.Time) (int, error)
}
