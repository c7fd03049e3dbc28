package winprob

import (
	"math"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

// Tolerances bound which historical chase records count as neighbours of a
// queried state. They are fixed per estimator, not adapted to data density.
type Tolerances struct {
	MinScore      float64
	ScoreFraction float64
	Over          int
	Wickets       int
}

func DefaultTolerances() Tolerances {
	return Tolerances{
		MinScore:      10,
		ScoreFraction: 0.05,
		Over:          1,
		Wickets:       1,
	}
}

// ScoreTolerance applies to both the target and the runs-so-far distance.
func (t Tolerances) ScoreTolerance(target int) float64 {
	return math.Max(t.MinScore, t.ScoreFraction*float64(target))
}

// Estimate is the outcome of one kernel-weighted lookup.
type Estimate struct {
	Probability float64
	SampleSize  int
	Records     int
}

// Estimator is a kernel-weighted nearest-neighbour estimator over chase outcomes.
type Estimator struct {
	tolerances Tolerances
}

func NewEstimator(tolerances Tolerances) *Estimator {
	return &Estimator{tolerances: tolerances}
}

// Estimate returns false when no record falls within tolerance of state.
// Each matching record is weighted by samples * 1/(1+|Δruns|) * 1/(1+|Δover|) * 1/(1+|Δwickets|).
func (e *Estimator) Estimate(state match.State, outcomes []match.ChaseOutcome) (Estimate, bool) {
	scoreTol := e.tolerances.ScoreTolerance(state.Target)

	var (
		weightSum float64
		wonSum    float64
		out       Estimate
	)
	for _, item := range outcomes {
		if item.Samples <= 0 {
			continue
		}
		if float64(absInt(item.Target-state.Target)) > scoreTol {
			continue
		}
		runsDiff := absInt(item.RunsSoFar - state.Score)
		overDiff := absInt(item.Over - state.Over)
		wicketDiff := absInt(item.Wickets - state.Wickets)
		if float64(runsDiff) > scoreTol || overDiff > e.tolerances.Over || wicketDiff > e.tolerances.Wickets {
			continue
		}

		weight := float64(item.Samples) * similarity(runsDiff) * similarity(overDiff) * similarity(wicketDiff)
		weightSum += weight
		if item.Won {
			wonSum += weight
		}
		out.SampleSize += item.Samples
		out.Records++
	}
	if out.Records == 0 || weightSum <= 0 {
		return Estimate{}, false
	}

	out.Probability = clamp01(wonSum / weightSum)
	return out, true
}

func similarity(diff int) float64 {
	return 1 / (1 + float64(diff))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
