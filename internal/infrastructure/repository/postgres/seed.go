package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
)

// BootstrapSeed loads simulated matches and lookup rows into an empty store.
// It is a no-op once the matches table has any row.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, matches []match.Match, deliveries []match.Delivery, rows []precomputed.Row) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM matches`); err != nil {
		return fmt.Errorf("count matches for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range matches {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO matches (id, venue, competition, date, team1, team2, winner, toss_winner, toss_decision)
VALUES (:id, :venue, :competition, :date, :team1, :team2, :winner, :toss_winner, :toss_decision)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":            m.ID,
			"venue":         m.Venue,
			"competition":   m.Competition,
			"date":          m.Date.UTC(),
			"team1":         m.Team1,
			"team2":         m.Team2,
			"winner":        m.Winner,
			"toss_winner":   m.TossWinner,
			"toss_decision": m.TossDecision,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %d query: %w", m.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed match %d: %w", m.ID, err)
		}
	}

	for _, d := range deliveries {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO deliveries (match_id, innings, "over", ball, runs_off_bat, extras, wicket_type, batting_team)
VALUES (:match_id, :innings, :over, :ball, :runs_off_bat, :extras, :wicket_type, :batting_team)`, map[string]any{
			"match_id":     d.MatchID,
			"innings":      d.Innings,
			"over":         d.Over,
			"ball":         d.Ball,
			"runs_off_bat": d.RunsOffBat,
			"extras":       d.Extras,
			"wicket_type":  d.WicketType,
			"batting_team": d.BattingTeam,
		})
		if err != nil {
			return fmt.Errorf("bind seed delivery for match %d query: %w", d.MatchID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed delivery for match %d: %w", d.MatchID, err)
		}
	}

	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, `
INSERT INTO wp_lookup (
	level, scope_key, target_bucket, over_bucket, wickets_lost, runs_min, runs_max,
	win_probability, sample_size, data_through_date, computed_at
) VALUES (
	:level, :scope_key, :target_bucket, :over_bucket, :wickets_lost, :runs_min, :runs_max,
	:win_probability, :sample_size, :data_through_date, :computed_at
)`, row); err != nil {
			return fmt.Errorf("seed wp lookup row %s/%s: %w", row.Level, row.ScopeKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
