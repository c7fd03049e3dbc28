package precomputed

import (
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
)

const (
	TargetBucketSize = 10
	OverBucketSize   = 2
	ScoreBucketSize  = 20

	// GlobalScopeKey identifies rows aggregated over every venue.
	GlobalScopeKey = "global"
)

// TargetBucket, OverBucket and ScoreBucket define the key space shared by the
// batch writer and the reader. Changing them invalidates every stored row.
func TargetBucket(target int) int {
	return floorTo(target, TargetBucketSize)
}

func OverBucket(over int) int {
	return floorTo(over, OverBucketSize)
}

func ScoreBucket(score int) int {
	return floorTo(score, ScoreBucketSize)
}

// ScoreRange returns the inclusive run range stored for the bucket holding score.
func ScoreRange(score int) (int, int) {
	lo := ScoreBucket(score)
	return lo, lo + ScoreBucketSize - 1
}

// LeagueScopeKey is the stored scope_key for a league. Leagues compare
// case-insensitively, so writer and reader both fold to lower case.
func LeagueScopeKey(league string) string {
	return strings.ToLower(strings.TrimSpace(league))
}

func floorTo(v, size int) int {
	if v < 0 {
		// floor division for negatives
		return -((-v + size - 1) / size) * size
	}
	return (v / size) * size
}

// Row is one materialised win-probability cell.
type Row struct {
	Level           fallback.Source `db:"level"`
	ScopeKey        string          `db:"scope_key"`
	TargetBucket    int             `db:"target_bucket"`
	OverBucket      int             `db:"over_bucket"`
	WicketsLost     int             `db:"wickets_lost"`
	RunsMin         int             `db:"runs_min"`
	RunsMax         int             `db:"runs_max"`
	WinProbability  float64         `db:"win_probability"`
	SampleSize      int             `db:"sample_size"`
	DataThroughDate time.Time       `db:"data_through_date"`
	ComputedAt      time.Time       `db:"computed_at"`
}

// Query addresses one cell. A zero Before disables the chronological filter.
type Query struct {
	Level         fallback.Source
	ScopeKey      string
	TargetBucket  int
	OverBucket    int
	WicketsLost   int
	Score         int
	Before        time.Time
	MinSampleSize int
}

// Matches applies the reader's filter to a row.
func (q Query) Matches(r Row) bool {
	if r.Level != q.Level || r.ScopeKey != q.ScopeKey {
		return false
	}
	if r.TargetBucket != q.TargetBucket || r.OverBucket != q.OverBucket || r.WicketsLost != q.WicketsLost {
		return false
	}
	if q.Score < r.RunsMin || q.Score > r.RunsMax {
		return false
	}
	if r.SampleSize < q.MinSampleSize {
		return false
	}
	if !q.Before.IsZero() && !r.DataThroughDate.Before(q.Before) {
		return false
	}
	return true
}
