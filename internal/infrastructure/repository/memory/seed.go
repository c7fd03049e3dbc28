package memory

import (
	"math/rand"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

type seedFixture struct {
	venue       string
	competition string
	home        string
	away        string
}

var seedFixtures = []seedFixture{
	{venue: "Wankhede Stadium, Mumbai", competition: "Indian Premier League", home: "Mumbai Indians", away: "Chennai Super Kings"},
	{venue: "M Chinnaswamy Stadium", competition: "Indian Premier League", home: "Royal Challengers Bangalore", away: "Kolkata Knight Riders"},
	{venue: "Eden Gardens", competition: "Indian Premier League", home: "Kolkata Knight Riders", away: "Mumbai Indians"},
	{venue: "MA Chidambaram Stadium, Chepauk", competition: "Indian Premier League", home: "Chennai Super Kings", away: "Royal Challengers Bangalore"},
	{venue: "Dubai International Cricket Stadium", competition: "T20I", home: "India", away: "Pakistan"},
}

// SeedMatches simulates a deterministic set of T20 matches for local runs.
// The same count always yields the same records.
func SeedMatches(count int) ([]match.Match, []match.Delivery) {
	rng := rand.New(rand.NewSource(20190401))
	start := time.Date(2019, 4, 1, 0, 0, 0, 0, time.UTC)
	format := match.T20()

	matches := make([]match.Match, 0, count)
	deliveries := make([]match.Delivery, 0, count*250)
	for i := 0; i < count; i++ {
		fixture := seedFixtures[i%len(seedFixtures)]
		id := int64(i + 1)

		batFirst, chase := fixture.home, fixture.away
		if rng.Intn(2) == 1 {
			batFirst, chase = chase, batFirst
		}

		first, total := simulateInnings(rng, id, 1, batFirst, format, 0)
		second, chased := simulateInnings(rng, id, 2, chase, format, total+1)

		winner := batFirst
		switch {
		case chased > total:
			winner = chase
		case chased == total:
			winner = ""
		}

		matches = append(matches, match.Match{
			ID:           id,
			Venue:        fixture.venue,
			Competition:  fixture.competition,
			Date:         start.AddDate(0, 0, i*3),
			Team1:        fixture.home,
			Team2:        fixture.away,
			Winner:       winner,
			TossWinner:   batFirst,
			TossDecision: "bat",
		})
		deliveries = append(deliveries, first...)
		deliveries = append(deliveries, second...)
	}
	return matches, deliveries
}

// simulateInnings stops at the end of the overs, at all out, or once a
// positive target is reached.
func simulateInnings(rng *rand.Rand, matchID int64, innings int, team string, format match.Format, target int) ([]match.Delivery, int) {
	var (
		out     []match.Delivery
		runs    int
		wickets int
	)
	for over := 0; over < format.MaxOvers; over++ {
		for ball := 1; ball <= format.BallsPerOver; ball++ {
			if rng.Float64() < 0.03 {
				out = append(out, match.Delivery{MatchID: matchID, Innings: innings, Over: over, Ball: ball, Extras: 1, BattingTeam: team})
				runs++
				if target > 0 && runs >= target {
					return out, runs
				}
			}

			d := match.Delivery{MatchID: matchID, Innings: innings, Over: over, Ball: ball, BattingTeam: team}
			switch p := rng.Float64(); {
			case p < 0.05:
				d.WicketType = "caught"
				wickets++
			case p < 0.38:
			case p < 0.72:
				d.RunsOffBat = 1
			case p < 0.80:
				d.RunsOffBat = 2
			case p < 0.94:
				d.RunsOffBat = 4
			default:
				d.RunsOffBat = 6
			}
			runs += d.TotalRuns()
			out = append(out, d)

			if wickets >= format.MaxWickets || (target > 0 && runs >= target) {
				return out, runs
			}
		}
	}
	return out, runs
}
