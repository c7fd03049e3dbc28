package winprob

import "github.com/riskibarqy/cricket-context/internal/domain/match"

// Terminal resolves states whose outcome is already decided.
func Terminal(state match.State, format match.Format) (float64, bool) {
	switch {
	case state.Score >= state.Target:
		return 1, true
	case state.Wickets >= format.MaxWickets:
		return 0, true
	case state.BallsRemaining(format) == 0:
		return 0, true
	default:
		return 0, false
	}
}

// Heuristic is the closed-form floor used when no empirical data exists.
// The base probability comes from the required run rate band and is scaled
// by the share of wickets in hand.
func Heuristic(state match.State, format match.Format) float64 {
	if p, ok := Terminal(state, format); ok {
		return p
	}

	runsNeeded := float64(state.Target - state.Score)
	oversRemaining := float64(state.BallsRemaining(format)) / float64(format.BallsPerOver)
	requiredRate := runsNeeded / oversRemaining

	var base float64
	switch {
	case requiredRate <= 6:
		base = 0.8
	case requiredRate <= 9:
		base = 0.6
	case requiredRate <= 12:
		base = 0.3
	default:
		base = 0.1
	}

	return clamp01(base * float64(state.WicketsRemaining(format)) / float64(format.MaxWickets))
}

// WPA is the win probability added by one delivery.
func WPA(pre, post float64) float64 {
	return post - pre
}
