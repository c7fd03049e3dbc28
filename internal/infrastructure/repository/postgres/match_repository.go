package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

// MatchRepository aggregates ball-by-ball states with window functions so a
// single round trip answers each call.
type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListStateAggregates(ctx context.Context, filter match.StateFilter) ([]match.StateAggregate, error) {
	query, args, err := stateAggregatesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build state aggregates query: %w", err)
	}

	var rows []stateAggregateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapQueryError("select state aggregates", err)
	}

	out := make([]match.StateAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.StateAggregate{
			Over:          row.Over,
			Wickets:       row.Wickets,
			Samples:       row.Samples,
			AvgRunsSoFar:  finiteOrZero(row.AvgRunsSoFar),
			AvgFinalScore: finiteOrZero(row.AvgFinalScore),
		})
	}
	return out, nil
}

func (r *MatchRepository) ListChaseOutcomes(ctx context.Context, filter match.ChaseFilter) ([]match.ChaseOutcome, error) {
	query, args, err := chaseOutcomesQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build chase outcomes query: %w", err)
	}

	var rows []chaseOutcomeRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapQueryError("select chase outcomes", err)
	}

	out := make([]match.ChaseOutcome, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.ChaseOutcome(row))
	}
	return out, nil
}

func (r *MatchRepository) CountMatches(ctx context.Context, scope match.Scope, before time.Time) (int, error) {
	query, args, err := countMatchesQuery(scope, before)
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, wrapQueryError("count matches", err)
	}
	return count, nil
}
