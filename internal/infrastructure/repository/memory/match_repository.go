package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

// MatchRepository evaluates the aggregation rules of the SQL store over
// in-process records.
type MatchRepository struct {
	mu         sync.RWMutex
	matches    map[int64]match.Match
	deliveries map[int64][]match.Delivery
}

func NewMatchRepository(matches []match.Match, deliveries []match.Delivery) *MatchRepository {
	r := &MatchRepository{
		matches:    make(map[int64]match.Match, len(matches)),
		deliveries: make(map[int64][]match.Delivery, len(matches)),
	}
	for _, m := range matches {
		r.matches[m.ID] = m
	}
	for _, d := range deliveries {
		r.deliveries[d.MatchID] = append(r.deliveries[d.MatchID], d)
	}
	return r
}

// Add stores a match and its deliveries, replacing earlier records with the same ID.
func (r *MatchRepository) Add(m match.Match, deliveries []match.Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.matches[m.ID] = m
	r.deliveries[m.ID] = append([]match.Delivery(nil), deliveries...)
}

func (r *MatchRepository) ListStateAggregates(ctx context.Context, filter match.StateFilter) ([]match.StateAggregate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type tally struct {
		samples  int
		runsSum  int
		finalSum int
	}
	groups := make(map[[2]int]*tally)

	r.mu.RLock()
	for _, id := range r.qualifying(filter.Scope, filter.Before) {
		innings := inningsDeliveries(r.deliveries[id], filter.Innings)
		if len(innings) == 0 {
			continue
		}
		balls := cumulate(innings)
		final := balls[len(balls)-1].runs
		for _, b := range balls {
			if b.over >= filter.Format.MaxOvers || b.wickets >= filter.Format.MaxWickets {
				continue
			}
			key := [2]int{b.over, b.wickets}
			t, ok := groups[key]
			if !ok {
				t = &tally{}
				groups[key] = t
			}
			t.samples++
			t.runsSum += b.runs
			t.finalSum += final
		}
	}
	r.mu.RUnlock()

	out := make([]match.StateAggregate, 0, len(groups))
	for key, t := range groups {
		out = append(out, match.StateAggregate{
			Over:          key[0],
			Wickets:       key[1],
			Samples:       t.samples,
			AvgRunsSoFar:  mean(t.runsSum, t.samples),
			AvgFinalScore: mean(t.finalSum, t.samples),
		})
	}
	match.SortStateAggregates(out)
	return out, nil
}

func (r *MatchRepository) ListChaseOutcomes(ctx context.Context, filter match.ChaseFilter) ([]match.ChaseOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type key struct {
		over, runs, wickets, target int
		won                         bool
	}
	groups := make(map[key]int)

	r.mu.RLock()
	for _, id := range r.qualifying(filter.Scope, filter.Before) {
		m := r.matches[id]
		if strings.TrimSpace(m.Winner) == "" {
			continue
		}
		first := inningsDeliveries(r.deliveries[id], 1)
		chase := inningsDeliveries(r.deliveries[id], 2)
		if len(first) == 0 || len(chase) == 0 {
			continue
		}
		target := 1
		for _, d := range first {
			target += d.TotalRuns()
		}
		for _, b := range cumulate(chase) {
			if b.over >= filter.Format.MaxOvers || b.wickets >= filter.Format.MaxWickets {
				continue
			}
			groups[key{
				over:    b.over,
				runs:    b.runs,
				wickets: b.wickets,
				target:  target,
				won:     m.Winner == b.battingTeam,
			}]++
		}
	}
	r.mu.RUnlock()

	out := make([]match.ChaseOutcome, 0, len(groups))
	for k, samples := range groups {
		out = append(out, match.ChaseOutcome{
			Over:      k.over,
			RunsSoFar: k.runs,
			Wickets:   k.wickets,
			Target:    k.target,
			Won:       k.won,
			Samples:   samples,
		})
	}
	match.SortChaseOutcomes(out)
	return out, nil
}

func (r *MatchRepository) CountMatches(ctx context.Context, scope match.Scope, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.qualifying(scope, before)), nil
}

// qualifying returns matching IDs in ascending order. Callers hold the read lock.
func (r *MatchRepository) qualifying(scope match.Scope, before time.Time) []int64 {
	ids := make([]int64, 0, len(r.matches))
	for id, m := range r.matches {
		if !before.IsZero() && !m.Date.Before(before) {
			continue
		}
		if !scope.Includes(m.Venue, m.Competition) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type ballState struct {
	over        int
	runs        int
	wickets     int
	battingTeam string
}

func inningsDeliveries(all []match.Delivery, innings int) []match.Delivery {
	out := make([]match.Delivery, 0, len(all)/2)
	for _, d := range all {
		if d.Innings == innings {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Over != out[j].Over {
			return out[i].Over < out[j].Over
		}
		return out[i].Ball < out[j].Ball
	})
	return out
}

// cumulate returns one state per delivery, inclusive of the delivery itself.
// Deliveries sharing (over, ball) all see the totals at the end of that group.
func cumulate(sorted []match.Delivery) []ballState {
	out := make([]ballState, len(sorted))
	runs, wickets := 0, 0
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Over == sorted[start].Over && sorted[end].Ball == sorted[start].Ball {
			runs += sorted[end].TotalRuns()
			if sorted[end].IsWicket() {
				wickets++
			}
			end++
		}
		for i := start; i < end; i++ {
			out[i] = ballState{
				over:        sorted[i].Over,
				runs:        runs,
				wickets:     wickets,
				battingTeam: sorted[i].BattingTeam,
			}
		}
		start = end
	}
	return out
}

func mean(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
