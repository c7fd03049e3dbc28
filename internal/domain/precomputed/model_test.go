package precomputed

import (
	"testing"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
)

func TestBuckets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  int
		want int
	}{
		{name: "target 156", got: TargetBucket(156), want: 150},
		{name: "target 150", got: TargetBucket(150), want: 150},
		{name: "target 9", got: TargetBucket(9), want: 0},
		{name: "over 11", got: OverBucket(11), want: 10},
		{name: "over 10", got: OverBucket(10), want: 10},
		{name: "over 0", got: OverBucket(0), want: 0},
		{name: "over 19", got: OverBucket(19), want: 18},
		{name: "score 72", got: ScoreBucket(72), want: 60},
		{name: "score 79", got: ScoreBucket(79), want: 60},
		{name: "score 80", got: ScoreBucket(80), want: 80},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.name, tc.got, tc.want)
		}
	}

	lo, hi := ScoreRange(72)
	if lo != 60 || hi != 79 {
		t.Fatalf("ScoreRange(72)=[%d,%d], want [60,79]", lo, hi)
	}
}

func TestQuery_MatchesWrittenRow(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	row := Row{
		Level:           fallback.SourceVenue,
		ScopeKey:        "Wankhede Stadium",
		TargetBucket:    150,
		OverBucket:      10,
		WicketsLost:     2,
		RunsMin:         60,
		RunsMax:         79,
		WinProbability:  0.55,
		SampleSize:      40,
		DataThroughDate: cutoff.AddDate(0, 0, -3),
	}
	q := Query{
		Level:         fallback.SourceVenue,
		ScopeKey:      "Wankhede Stadium",
		TargetBucket:  TargetBucket(156),
		OverBucket:    OverBucket(11),
		WicketsLost:   2,
		Score:         72,
		Before:        cutoff,
		MinSampleSize: 5,
	}
	if !q.Matches(row) {
		t.Fatalf("expected row to match query")
	}

	stale := q
	stale.Before = row.DataThroughDate
	if stale.Matches(row) {
		t.Fatalf("row computed through the cutoff date must not match")
	}

	relaxed := stale
	relaxed.Before = time.Time{}
	if !relaxed.Matches(row) {
		t.Fatalf("relaxed query should ignore data_through_date")
	}

	thin := q
	thin.MinSampleSize = 41
	if thin.Matches(row) {
		t.Fatalf("sample size gate not applied")
	}

	outside := q
	outside.Score = 80
	if outside.Matches(row) {
		t.Fatalf("score outside stored range must not match")
	}
}
