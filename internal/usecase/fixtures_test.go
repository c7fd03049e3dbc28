package usecase

import (
	"sync"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

var (
	seasonStart = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	cutoff      = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
)

// chaseFixture plays a 149-run first innings (9 in the first over, 140 in the
// sixth) and a single second-innings ball reaching 80/0 in the 11th over.
func chaseFixture(id int64, venueName string, date time.Time, chaserWon bool) (match.Match, []match.Delivery) {
	winner := "Bowlers XI"
	if chaserWon {
		winner = "Chasers XI"
	}
	m := match.Match{
		ID:          id,
		Venue:       venueName,
		Competition: "Indian Premier League",
		Date:        date,
		Team1:       "Bowlers XI",
		Team2:       "Chasers XI",
		Winner:      winner,
	}
	return m, []match.Delivery{
		{MatchID: id, Innings: 1, Over: 0, Ball: 1, RunsOffBat: 9, BattingTeam: "Bowlers XI"},
		{MatchID: id, Innings: 1, Over: 5, Ball: 1, RunsOffBat: 140, BattingTeam: "Bowlers XI"},
		{MatchID: id, Innings: 2, Over: 10, Ball: 1, RunsOffBat: 80, BattingTeam: "Chasers XI"},
	}
}

type fixtureSet struct {
	venue string
	count int
	won   int
	date  time.Time
}

func buildRepository(sets ...fixtureSet) *memory.MatchRepository {
	repo := memory.NewMatchRepository(nil, nil)
	var id int64
	for _, set := range sets {
		for i := 0; i < set.count; i++ {
			id++
			m, deliveries := chaseFixture(id, set.venue, set.date.AddDate(0, 0, i), i < set.won)
			repo.Add(m, deliveries)
		}
	}
	return repo
}

// clusterScenario: 4 Wankhede matches (below the venue gate) and 16 more in
// the same cluster, 12 of the 20 chases won.
func clusterScenario() *memory.MatchRepository {
	return buildRepository(
		fixtureSet{venue: "Wankhede Stadium", count: 4, won: 2, date: seasonStart},
		fixtureSet{venue: "M Chinnaswamy Stadium", count: 16, won: 10, date: seasonStart.AddDate(0, 0, 10)},
	)
}

type recordingObserver struct {
	mu         sync.Mutex
	lookups    []string
	dataErrors []string
}

func (o *recordingObserver) ObserveLookup(kind, source string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups = append(o.lookups, kind+":"+source)
}

func (o *recordingObserver) ObserveDataSourceError(operation string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dataErrors = append(o.dataErrors, operation)
}

func newExtractor(repo match.Repository, observer Observer) *HistoricalStateExtractor {
	return NewHistoricalStateExtractor(repo, logging.NewNop(), observer)
}

func defaultVenues() *venue.Manager {
	return venue.NewManager(venue.DefaultConfig())
}
