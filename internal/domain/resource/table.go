package resource

import (
	"fmt"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

// Origin records how a cell value was obtained.
type Origin string

const (
	OriginExact        Origin = "exact"
	OriginInterpolated Origin = "interpolated"
	OriginHeuristic    Origin = "heuristic"
)

// Cell is one (over, wickets) entry of a resource table.
type Cell struct {
	Percentage float64 `json:"percentage"`
	Support    int     `json:"support"`
	Origin     Origin  `json:"origin"`
}

// Table is a dense MaxOvers x MaxWickets grid for one innings.
type Table struct {
	Innings    int
	MaxOvers   int
	MaxWickets int
	cells      []Cell
}

func newTable(innings int, format match.Format) Table {
	return Table{
		Innings:    innings,
		MaxOvers:   format.MaxOvers,
		MaxWickets: format.MaxWickets,
		cells:      make([]Cell, format.MaxOvers*format.MaxWickets),
	}
}

func (t Table) index(over, wickets int) int {
	return over*t.MaxWickets + wickets
}

func (t Table) InRange(over, wickets int) bool {
	return over >= 0 && over < t.MaxOvers && wickets >= 0 && wickets < t.MaxWickets
}

// At returns the cell for (over, wickets). It panics on out-of-range indices,
// callers validate states first.
func (t Table) At(over, wickets int) Cell {
	if !t.InRange(over, wickets) {
		panic(fmt.Sprintf("resource cell (%d,%d) outside %dx%d table", over, wickets, t.MaxOvers, t.MaxWickets))
	}
	return t.cells[t.index(over, wickets)]
}

func (t Table) set(over, wickets int, c Cell) {
	t.cells[t.index(over, wickets)] = c
}

// Rows returns a copy of the grid as [over][wickets] percentages.
func (t Table) Rows() [][]float64 {
	out := make([][]float64, t.MaxOvers)
	for o := 0; o < t.MaxOvers; o++ {
		row := make([]float64, t.MaxWickets)
		for w := 0; w < t.MaxWickets; w++ {
			row[w] = t.cells[t.index(o, w)].Percentage
		}
		out[o] = row
	}
	return out
}

// Violation describes a pair of cells breaking the non-increasing invariant.
type Violation struct {
	Over, Wickets         int
	NextOver, NextWickets int
	Value, Next           float64
}

// MonotoneViolations lists every adjacent pair where resource grows as the
// innings progresses or as wickets fall, beyond tolerance.
func (t Table) MonotoneViolations(tolerance float64) []Violation {
	var out []Violation
	for o := 0; o < t.MaxOvers; o++ {
		for w := 0; w < t.MaxWickets; w++ {
			cur := t.At(o, w).Percentage
			if o+1 < t.MaxOvers {
				if next := t.At(o+1, w).Percentage; next > cur+tolerance {
					out = append(out, Violation{Over: o, Wickets: w, NextOver: o + 1, NextWickets: w, Value: cur, Next: next})
				}
			}
			if w+1 < t.MaxWickets {
				if next := t.At(o, w+1).Percentage; next > cur+tolerance {
					out = append(out, Violation{Over: o, Wickets: w, NextOver: o, NextWickets: w + 1, Value: cur, Next: next})
				}
			}
		}
	}
	return out
}
