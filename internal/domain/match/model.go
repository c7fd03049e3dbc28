package match

import (
	"sort"
	"strings"
	"time"
)

// Format describes the shape of a limited-overs innings.
type Format struct {
	MaxOvers     int
	MaxWickets   int
	BallsPerOver int
}

func T20() Format {
	return Format{
		MaxOvers:     20,
		MaxWickets:   10,
		BallsPerOver: 6,
	}
}

// TotalBalls is the number of legal deliveries in a complete innings.
func (f Format) TotalBalls() int {
	return f.MaxOvers * f.BallsPerOver
}

// Match is an immutable historical fixture record.
type Match struct {
	ID           int64
	Venue        string
	Competition  string
	Date         time.Time
	Team1        string
	Team2        string
	Winner       string
	TossWinner   string
	TossDecision string
}

// Delivery is one ball bowled. Over is 0-based.
type Delivery struct {
	MatchID     int64
	Innings     int
	Over        int
	Ball        int
	RunsOffBat  int
	Extras      int
	WicketType  string
	BattingTeam string
}

func (d Delivery) TotalRuns() int {
	return d.RunsOffBat + d.Extras
}

func (d Delivery) IsWicket() bool {
	return strings.TrimSpace(d.WicketType) != ""
}

// State is a cut point inside an innings. Ball counts legal balls already
// bowled in the current over, so (Over=3, Ball=0) is the start of the 4th over.
type State struct {
	Over    int
	Ball    int
	Wickets int
	Score   int
	Target  int
}

func (s State) BallsBowled(f Format) int {
	return s.Over*f.BallsPerOver + s.Ball
}

func (s State) BallsRemaining(f Format) int {
	remaining := f.TotalBalls() - s.BallsBowled(f)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s State) WicketsRemaining(f Format) int {
	remaining := f.MaxWickets - s.Wickets
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StateAggregate groups every historical state sharing (over, wickets).
type StateAggregate struct {
	Over          int
	Wickets       int
	Samples       int
	AvgRunsSoFar  float64
	AvgFinalScore float64
}

// ChaseOutcome groups second-innings balls sharing the same chase state and result.
type ChaseOutcome struct {
	Over      int
	RunsSoFar int
	Wickets   int
	Target    int
	Won       bool
	Samples   int
}

func SortStateAggregates(items []StateAggregate) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Over != items[j].Over {
			return items[i].Over < items[j].Over
		}
		return items[i].Wickets < items[j].Wickets
	})
}

func SortChaseOutcomes(items []ChaseOutcome) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.Over != b.Over:
			return a.Over < b.Over
		case a.RunsSoFar != b.RunsSoFar:
			return a.RunsSoFar < b.RunsSoFar
		case a.Wickets != b.Wickets:
			return a.Wickets < b.Wickets
		case a.Target != b.Target:
			return a.Target < b.Target
		default:
			return !a.Won && b.Won
		}
	})
}
