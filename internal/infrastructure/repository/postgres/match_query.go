package postgres

import (
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
	qb "github.com/riskibarqy/cricket-context/internal/platform/querybuilder"
)

const (
	ballRunsExpr   = "d.runs_off_bat + d.extras"
	ballWicketExpr = "CASE WHEN COALESCE(TRIM(d.wicket_type), '') <> '' THEN 1 ELSE 0 END"

	// Peers sharing (over, ball) get the same cumulative values under the
	// default RANGE frame, which keeps the result independent of row order.
	cumulativeWindow = `w AS (PARTITION BY d.match_id ORDER BY d."over", d.ball)`
)

// scopeConditions renders match.Scope.Includes plus the chronological cutoff
// against the matches table aliased as m.
func scopeConditions(scope match.Scope, before time.Time) []qb.Condition {
	var conds []qb.Condition

	if len(scope.Venues) > 0 || len(scope.VenuePatterns) > 0 {
		var terms []qb.Condition
		if len(scope.Venues) > 0 {
			terms = append(terms, qb.InStrings("m.venue", scope.Venues))
		}
		for _, raw := range scope.VenuePatterns {
			pattern := strings.ToLower(strings.TrimSpace(raw))
			if pattern == "" {
				continue
			}
			terms = append(terms, qb.Expr(
				"(TRIM(m.venue) <> '' AND (POSITION(? IN LOWER(TRIM(m.venue))) > 0 OR POSITION(LOWER(TRIM(m.venue)) IN ?) > 0))",
				pattern, pattern,
			))
		}
		conds = append(conds, qb.Or(terms...))
	}

	if league := strings.TrimSpace(scope.League); league != "" {
		conds = append(conds, qb.Expr("LOWER(TRIM(m.competition)) = ?", strings.ToLower(league)))
	}
	if !before.IsZero() {
		conds = append(conds, qb.Expr("m.date < ?", before))
	}
	return conds
}

func stateAggregatesQuery(filter match.StateFilter) (string, []any, error) {
	scoped := qb.Select("m.id").
		From("matches m").
		Where(scopeConditions(filter.Scope, filter.Before)...)

	balls := qb.Select(
		`d."over"`,
		"SUM("+ballRunsExpr+") OVER w AS runs_so_far",
		"SUM("+ballWicketExpr+") OVER w AS wickets_so_far",
		"SUM("+ballRunsExpr+") OVER (PARTITION BY d.match_id) AS final_score",
	).
		From("deliveries d").
		Join("JOIN scoped s ON s.id = d.match_id").
		Where(qb.Eq("d.innings", filter.Innings)).
		Window(cumulativeWindow)

	return qb.Select(
		`"over"`,
		"wickets_so_far AS wickets",
		"COUNT(*) AS samples",
		"AVG(runs_so_far)::float8 AS avg_runs_so_far",
		"AVG(final_score)::float8 AS avg_final_score",
	).
		With("scoped", scoped).
		With("balls", balls).
		From("balls").
		Where(
			qb.Expr(`"over" < ?`, filter.Format.MaxOvers),
			qb.Expr("wickets_so_far < ?", filter.Format.MaxWickets),
		).
		GroupBy(`"over"`, "wickets_so_far").
		OrderBy(`"over"`, "wickets_so_far").
		ToSQL()
}

func chaseOutcomesQuery(filter match.ChaseFilter) (string, []any, error) {
	conds := scopeConditions(filter.Scope, filter.Before)
	conds = append(conds, qb.Expr("COALESCE(TRIM(m.winner), '') <> ''"))
	scoped := qb.Select("m.id", "m.winner").
		From("matches m").
		Where(conds...)

	firstInnings := qb.Select("d.match_id", "SUM("+ballRunsExpr+") AS total").
		From("deliveries d").
		Join("JOIN scoped s ON s.id = d.match_id").
		Where(qb.Eq("d.innings", 1)).
		GroupBy("d.match_id")

	chase := qb.Select(
		`d."over"`,
		"f.total + 1 AS target",
		"(s.winner = d.batting_team) AS won",
		"SUM("+ballRunsExpr+") OVER w AS runs_so_far",
		"SUM("+ballWicketExpr+") OVER w AS wickets_so_far",
	).
		From("deliveries d").
		Join("JOIN scoped s ON s.id = d.match_id").
		Join("JOIN first_innings f ON f.match_id = d.match_id").
		Where(qb.Eq("d.innings", 2)).
		Window(cumulativeWindow)

	return qb.Select(
		`"over"`,
		"runs_so_far",
		"wickets_so_far AS wickets",
		"target",
		"won",
		"COUNT(*) AS samples",
	).
		With("scoped", scoped).
		With("first_innings", firstInnings).
		With("chase", chase).
		From("chase").
		Where(
			qb.Expr(`"over" < ?`, filter.Format.MaxOvers),
			qb.Expr("wickets_so_far < ?", filter.Format.MaxWickets),
		).
		GroupBy(`"over"`, "runs_so_far", "wickets_so_far", "target", "won").
		OrderBy(`"over"`, "runs_so_far", "wickets_so_far", "target", "won").
		ToSQL()
}

func countMatchesQuery(scope match.Scope, before time.Time) (string, []any, error) {
	return qb.Select("COUNT(*)").
		From("matches m").
		Where(scopeConditions(scope, before)...).
		ToSQL()
}
