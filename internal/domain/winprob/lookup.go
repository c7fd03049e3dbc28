package winprob

import (
	"sort"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
)

type lookupKey struct {
	target  int
	over    int
	wickets int
	score   int
}

type lookupTally struct {
	won   int
	total int
}

// BuildLookupRows materialises chase outcomes into bucketed rows the
// precomputed reader can address. Rows are returned in key order.
func BuildLookupRows(outcomes []match.ChaseOutcome, level fallback.Source, scopeKey string, dataThrough, computedAt time.Time) []precomputed.Row {
	tallies := make(map[lookupKey]*lookupTally)
	for _, item := range outcomes {
		if item.Samples <= 0 {
			continue
		}
		key := lookupKey{
			target:  precomputed.TargetBucket(item.Target),
			over:    precomputed.OverBucket(item.Over),
			wickets: item.Wickets,
			score:   precomputed.ScoreBucket(item.RunsSoFar),
		}
		tally, ok := tallies[key]
		if !ok {
			tally = &lookupTally{}
			tallies[key] = tally
		}
		tally.total += item.Samples
		if item.Won {
			tally.won += item.Samples
		}
	}

	rows := make([]precomputed.Row, 0, len(tallies))
	for key, tally := range tallies {
		rows = append(rows, precomputed.Row{
			Level:           level,
			ScopeKey:        scopeKey,
			TargetBucket:    key.target,
			OverBucket:      key.over,
			WicketsLost:     key.wickets,
			RunsMin:         key.score,
			RunsMax:         key.score + precomputed.ScoreBucketSize - 1,
			WinProbability:  float64(tally.won) / float64(tally.total),
			SampleSize:      tally.total,
			DataThroughDate: dataThrough,
			ComputedAt:      computedAt,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.TargetBucket != b.TargetBucket:
			return a.TargetBucket < b.TargetBucket
		case a.OverBucket != b.OverBucket:
			return a.OverBucket < b.OverBucket
		case a.WicketsLost != b.WicketsLost:
			return a.WicketsLost < b.WicketsLost
		default:
			return a.RunsMin < b.RunsMin
		}
	})
	return rows
}
