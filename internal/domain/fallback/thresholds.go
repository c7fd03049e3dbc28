package fallback

import "fmt"

// Thresholds stores the minimum evidence required at each level.
type Thresholds struct {
	MinMatchesVenue   int
	MinMatchesCluster int
	MinMatchesLeague  int

	MinResourceCellSamples int

	MinWinProbSamplesVenue   int
	MinWinProbSamplesCluster int
	MinWinProbSamplesLeague  int
	MinWinProbSamplesGlobal  int

	MinPrecomputedSamples int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinMatchesVenue:          5,
		MinMatchesCluster:        15,
		MinMatchesLeague:         50,
		MinResourceCellSamples:   5,
		MinWinProbSamplesVenue:   5,
		MinWinProbSamplesCluster: 10,
		MinWinProbSamplesLeague:  10,
		MinWinProbSamplesGlobal:  15,
		MinPrecomputedSamples:    5,
	}
}

// MinMatches returns the match-count gate for a level. Global accepts any sample.
func (t Thresholds) MinMatches(source Source) int {
	switch source {
	case SourceVenue, SourceVenueRelaxed:
		return t.MinMatchesVenue
	case SourceCluster:
		return t.MinMatchesCluster
	case SourceLeague:
		return t.MinMatchesLeague
	default:
		return 1
	}
}

func (t Thresholds) MinWinProbSamples(source Source) int {
	switch source {
	case SourceVenue, SourceVenueRelaxed:
		return t.MinWinProbSamplesVenue
	case SourceCluster:
		return t.MinWinProbSamplesCluster
	case SourceLeague:
		return t.MinWinProbSamplesLeague
	default:
		return t.MinWinProbSamplesGlobal
	}
}

func (t Thresholds) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"min matches venue", t.MinMatchesVenue},
		{"min matches cluster", t.MinMatchesCluster},
		{"min matches league", t.MinMatchesLeague},
		{"min resource cell samples", t.MinResourceCellSamples},
		{"min win probability samples venue", t.MinWinProbSamplesVenue},
		{"min win probability samples cluster", t.MinWinProbSamplesCluster},
		{"min win probability samples league", t.MinWinProbSamplesLeague},
		{"min win probability samples global", t.MinWinProbSamplesGlobal},
		{"min precomputed samples", t.MinPrecomputedSamples},
	}
	for _, c := range checks {
		if c.value < 1 {
			return fmt.Errorf("%s must be >= 1, got %d", c.name, c.value)
		}
	}
	return nil
}
