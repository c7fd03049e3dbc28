package postgres

import (
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
)

type lookupTableModel struct {
	ID              int64     `db:"id"`
	Level           string    `db:"level"`
	ScopeKey        string    `db:"scope_key"`
	TargetBucket    int       `db:"target_bucket"`
	OverBucket      int       `db:"over_bucket"`
	WicketsLost     int       `db:"wickets_lost"`
	RunsMin         int       `db:"runs_min"`
	RunsMax         int       `db:"runs_max"`
	WinProbability  float64   `db:"win_probability"`
	SampleSize      int       `db:"sample_size"`
	DataThroughDate time.Time `db:"data_through_date"`
	ComputedAt      time.Time `db:"computed_at"`
}

func lookupFromRow(row lookupTableModel) precomputed.Row {
	return precomputed.Row{
		Level:           fallback.Source(row.Level),
		ScopeKey:        row.ScopeKey,
		TargetBucket:    row.TargetBucket,
		OverBucket:      row.OverBucket,
		WicketsLost:     row.WicketsLost,
		RunsMin:         row.RunsMin,
		RunsMax:         row.RunsMax,
		WinProbability:  row.WinProbability,
		SampleSize:      row.SampleSize,
		DataThroughDate: row.DataThroughDate,
		ComputedAt:      row.ComputedAt,
	}
}
