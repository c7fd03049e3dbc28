package resource

import (
	"math"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

const neighbourRadius = 2

// Builder turns historical (over, wickets) aggregates into a resource table.
type Builder struct {
	format   match.Format
	monotone bool
}

func NewBuilder(format match.Format, monotone bool) *Builder {
	return &Builder{format: format, monotone: monotone}
}

type exactCell struct {
	over, wickets int
	percentage    float64
	samples       int
}

// Build fills every cell of the grid in two phases: exact cells straight from
// the aggregates, then neighbour-weighted or heuristic estimates for the gaps.
func (b *Builder) Build(innings int, aggregates []match.StateAggregate) Table {
	table := newTable(innings, b.format)

	exact := make([]exactCell, 0, len(aggregates))
	present := make(map[[2]int]struct{}, len(aggregates))
	for _, agg := range aggregates {
		if !table.InRange(agg.Over, agg.Wickets) || agg.Samples <= 0 {
			continue
		}
		pct := ExactPercentage(agg.AvgRunsSoFar, agg.AvgFinalScore)
		exact = append(exact, exactCell{over: agg.Over, wickets: agg.Wickets, percentage: pct, samples: agg.Samples})
		present[[2]int{agg.Over, agg.Wickets}] = struct{}{}
		table.set(agg.Over, agg.Wickets, Cell{Percentage: pct, Support: agg.Samples, Origin: OriginExact})
	}

	for o := 0; o < b.format.MaxOvers; o++ {
		for w := 0; w < b.format.MaxWickets; w++ {
			if _, ok := present[[2]int{o, w}]; ok {
				continue
			}
			if pct, support, ok := interpolate(o, w, exact); ok {
				table.set(o, w, Cell{Percentage: pct, Support: support, Origin: OriginInterpolated})
				continue
			}
			table.set(o, w, Cell{Percentage: Heuristic(o, w, b.format), Origin: OriginHeuristic})
		}
	}

	if b.monotone {
		enforceMonotone(table)
	}
	for i := range table.cells {
		table.cells[i].Percentage = round2(table.cells[i].Percentage)
	}
	return table
}

// ExactPercentage is the share of the final score still to come.
func ExactPercentage(avgRunsSoFar, avgFinalScore float64) float64 {
	if avgFinalScore <= 0 || math.IsNaN(avgFinalScore) || math.IsNaN(avgRunsSoFar) {
		return 0
	}
	return clamp((avgFinalScore-avgRunsSoFar)/avgFinalScore*100, 0, 100)
}

// Heuristic is the closed-form fallback used when no historical cell is near.
func Heuristic(over, wickets int, format match.Format) float64 {
	if format.MaxOvers <= 0 || format.MaxWickets <= 0 {
		return 0
	}
	oversRemaining := float64(format.MaxOvers - over)
	wicketsRemaining := format.MaxWickets - wickets
	if wicketsRemaining < 1 {
		wicketsRemaining = 1
	}
	pct := oversRemaining / float64(format.MaxOvers) * float64(wicketsRemaining) / float64(format.MaxWickets) * 100
	return clamp(pct, 0, 100)
}

func interpolate(over, wickets int, exact []exactCell) (float64, int, bool) {
	var weighted, totalWeight float64
	support := 0
	for _, c := range exact {
		d := abs(c.over-over) + abs(c.wickets-wickets)
		if d == 0 || d > neighbourRadius {
			continue
		}
		weight := 1 / float64(d+1)
		weighted += weight * c.percentage
		totalWeight += weight
		support += c.samples
	}
	if totalWeight == 0 {
		return 0, 0, false
	}
	return clamp(weighted/totalWeight, 0, 100), support, true
}

// enforceMonotone applies a running minimum along overs and then wickets, so
// resource never grows as the innings progresses or as wickets fall.
func enforceMonotone(t Table) {
	for w := 0; w < t.MaxWickets; w++ {
		for o := 1; o < t.MaxOvers; o++ {
			prev := t.cells[t.index(o-1, w)].Percentage
			if c := &t.cells[t.index(o, w)]; c.Percentage > prev {
				c.Percentage = prev
			}
		}
	}
	for o := 0; o < t.MaxOvers; o++ {
		for w := 1; w < t.MaxWickets; w++ {
			prev := t.cells[t.index(o, w-1)].Percentage
			if c := &t.cells[t.index(o, w)]; c.Percentage > prev {
				c.Percentage = prev
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
