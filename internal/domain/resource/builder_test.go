package resource

import (
	"math"
	"testing"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

func TestExactPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		runs, final float64
		want        float64
	}{
		{name: "quarter scored", runs: 40, final: 160, want: 75},
		{name: "nothing scored", runs: 0, final: 150, want: 100},
		{name: "zero final score", runs: 0, final: 0, want: 0},
		{name: "runs above final clamps", runs: 200, final: 150, want: 0},
		{name: "nan final", runs: 10, final: math.NaN(), want: 0},
	}
	for _, tc := range tests {
		if got := ExactPercentage(tc.runs, tc.final); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHeuristic(t *testing.T) {
	t.Parallel()

	f := match.T20()
	if got := Heuristic(0, 0, f); got != 100 {
		t.Fatalf("start of innings: got %v, want 100", got)
	}
	if got := Heuristic(10, 5, f); math.Abs(got-25) > 1e-9 {
		t.Fatalf("halfway: got %v, want 25", got)
	}
	// wickets remaining floors at one
	if got := Heuristic(10, 10, f); math.Abs(got-5) > 1e-9 {
		t.Fatalf("all out floor: got %v, want 5", got)
	}
}

func TestBuilder_ExactAndInterpolatedCells(t *testing.T) {
	t.Parallel()

	b := NewBuilder(match.T20(), false)
	table := b.Build(1, []match.StateAggregate{
		{Over: 5, Wickets: 2, Samples: 12, AvgRunsSoFar: 32, AvgFinalScore: 160},
		{Over: 5, Wickets: 4, Samples: 8, AvgRunsSoFar: 64, AvgFinalScore: 160},
	})

	exact := table.At(5, 2)
	if exact.Origin != OriginExact || exact.Percentage != 80 || exact.Support != 12 {
		t.Fatalf("unexpected exact cell: %+v", exact)
	}

	between := table.At(5, 3)
	if between.Origin != OriginInterpolated {
		t.Fatalf("expected interpolated cell, got %+v", between)
	}
	if between.Percentage != 70 || between.Support != 20 {
		t.Fatalf("unexpected interpolated value: %+v", between)
	}

	// distance two from (5,2) only: weight 1/3 vs (5,4) at distance 4 ignored
	twoAway := table.At(7, 2)
	if twoAway.Origin != OriginInterpolated || twoAway.Percentage != 80 || twoAway.Support != 12 {
		t.Fatalf("unexpected distance-two cell: %+v", twoAway)
	}

	far := table.At(15, 0)
	if far.Origin != OriginHeuristic || far.Percentage != Heuristic(15, 0, match.T20()) {
		t.Fatalf("expected heuristic cell, got %+v", far)
	}
}

func TestBuilder_WeightsByInverseDistance(t *testing.T) {
	t.Parallel()

	b := NewBuilder(match.T20(), false)
	table := b.Build(1, []match.StateAggregate{
		{Over: 4, Wickets: 1, Samples: 5, AvgRunsSoFar: 0, AvgFinalScore: 100},  // 100%, d=1 from (4,2)
		{Over: 4, Wickets: 4, Samples: 5, AvgRunsSoFar: 50, AvgFinalScore: 100}, // 50%, d=2 from (4,2)
	})

	// (100*1/2 + 50*1/3) / (1/2 + 1/3) = 80
	got := table.At(4, 2)
	if got.Percentage != 80 {
		t.Fatalf("got %v, want 80", got.Percentage)
	}
}

func TestBuilder_MonotoneAndBounded(t *testing.T) {
	t.Parallel()

	f := match.T20()
	aggregates := syntheticAggregates(f)
	// small-sample noise that breaks the invariant on raw data
	for i := range aggregates {
		if aggregates[i].Over == 12 && aggregates[i].Wickets == 6 {
			aggregates[i].Samples = 1
			aggregates[i].AvgRunsSoFar = 5
		}
	}

	raw := NewBuilder(f, false).Build(1, aggregates)
	if len(raw.MonotoneViolations(0)) == 0 {
		t.Fatalf("expected the noisy cell to violate monotonicity without smoothing")
	}

	table := NewBuilder(f, true).Build(1, aggregates)
	if v := table.MonotoneViolations(0); len(v) != 0 {
		t.Fatalf("unexpected violations: %+v", v)
	}
	for o := 0; o < f.MaxOvers; o++ {
		for w := 0; w < f.MaxWickets; w++ {
			p := table.At(o, w).Percentage
			if p < 0 || p > 100 {
				t.Fatalf("cell (%d,%d) out of bounds: %v", o, w, p)
			}
			if p != math.Round(p*100)/100 {
				t.Fatalf("cell (%d,%d) not rounded: %v", o, w, p)
			}
		}
	}
}

func TestBuilder_CleanDataIsMonotoneWithoutSmoothing(t *testing.T) {
	t.Parallel()

	f := match.T20()
	table := NewBuilder(f, false).Build(2, syntheticAggregates(f))
	if v := table.MonotoneViolations(0); len(v) != 0 {
		t.Fatalf("unexpected violations: %+v", v)
	}
}

func TestBuilder_EmptyAggregatesFallBackToHeuristicGrid(t *testing.T) {
	t.Parallel()

	f := match.T20()
	table := NewBuilder(f, true).Build(1, nil)
	for o := 0; o < f.MaxOvers; o++ {
		for w := 0; w < f.MaxWickets; w++ {
			c := table.At(o, w)
			if c.Origin != OriginHeuristic || c.Support != 0 {
				t.Fatalf("cell (%d,%d) should be heuristic: %+v", o, w, c)
			}
		}
	}
	if v := table.MonotoneViolations(0); len(v) != 0 {
		t.Fatalf("heuristic grid must be monotone: %+v", v)
	}
}

// syntheticAggregates covers the whole grid with a scoring pattern where
// resource falls with both overs and wickets.
func syntheticAggregates(f match.Format) []match.StateAggregate {
	var out []match.StateAggregate
	for o := 0; o < f.MaxOvers; o++ {
		for w := 0; w < f.MaxWickets; w++ {
			runs := float64(7*o + 4*w)
			out = append(out, match.StateAggregate{
				Over:          o,
				Wickets:       w,
				Samples:       20,
				AvgRunsSoFar:  runs,
				AvgFinalScore: 160,
			})
		}
	}
	return out
}
