package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	qb "github.com/riskibarqy/cricket-context/internal/platform/querybuilder"
)

// LookupRepository reads the wp_lookup table written by the batch job.
type LookupRepository struct {
	db *sqlx.DB
}

func NewLookupRepository(db *sqlx.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func lookupQuery(q precomputed.Query) (string, []any, error) {
	conds := []qb.Condition{
		qb.Eq("level", string(q.Level)),
		qb.Eq("scope_key", q.ScopeKey),
		qb.Eq("target_bucket", q.TargetBucket),
		qb.Eq("over_bucket", q.OverBucket),
		qb.Eq("wickets_lost", q.WicketsLost),
		qb.Expr("runs_min <= ?", q.Score),
		qb.Expr("runs_max >= ?", q.Score),
		qb.Expr("sample_size >= ?", q.MinSampleSize),
	}
	if !q.Before.IsZero() {
		conds = append(conds, qb.Expr("data_through_date < ?", q.Before))
	}

	return qb.Select(
		"id", "level", "scope_key", "target_bucket", "over_bucket", "wickets_lost",
		"runs_min", "runs_max", "win_probability", "sample_size", "data_through_date", "computed_at",
	).
		From("wp_lookup").
		Where(conds...).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1).
		ToSQL()
}

func (r *LookupRepository) FindLatest(ctx context.Context, q precomputed.Query) (precomputed.Row, bool, error) {
	query, args, err := lookupQuery(q)
	if err != nil {
		return precomputed.Row{}, false, fmt.Errorf("build wp lookup query: %w", err)
	}

	var row lookupTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return precomputed.Row{}, false, nil
		}
		return precomputed.Row{}, false, wrapQueryError("get wp lookup row", err)
	}
	return lookupFromRow(row), true, nil
}
