package postgres

import "database/sql"

type stateAggregateRow struct {
	Over          int             `db:"over"`
	Wickets       int             `db:"wickets"`
	Samples       int             `db:"samples"`
	AvgRunsSoFar  sql.NullFloat64 `db:"avg_runs_so_far"`
	AvgFinalScore sql.NullFloat64 `db:"avg_final_score"`
}

type chaseOutcomeRow struct {
	Over      int  `db:"over"`
	RunsSoFar int  `db:"runs_so_far"`
	Wickets   int  `db:"wickets"`
	Target    int  `db:"target"`
	Won       bool `db:"won"`
	Samples   int  `db:"samples"`
}
