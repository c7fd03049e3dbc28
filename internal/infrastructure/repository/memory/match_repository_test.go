package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/match"
)

var (
	day1   = time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	day2   = time.Date(2023, 4, 8, 0, 0, 0, 0, time.UTC)
	cutoff = time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)
)

// twoBallMatch: innings 1 scores 4, W(0), extras 1 on the same ball, then 6.
func twoBallMatch(id int64, venue string, date time.Time, winner string) (match.Match, []match.Delivery) {
	m := match.Match{ID: id, Venue: venue, Competition: "Indian Premier League", Date: date, Team1: "A", Team2: "B", Winner: winner}
	return m, []match.Delivery{
		{MatchID: id, Innings: 1, Over: 0, Ball: 1, RunsOffBat: 4, BattingTeam: "A"},
		{MatchID: id, Innings: 1, Over: 0, Ball: 2, WicketType: "bowled", BattingTeam: "A"},
		{MatchID: id, Innings: 1, Over: 0, Ball: 2, Extras: 1, BattingTeam: "A"},
		{MatchID: id, Innings: 1, Over: 1, Ball: 1, RunsOffBat: 6, BattingTeam: "A"},
		{MatchID: id, Innings: 2, Over: 0, Ball: 1, RunsOffBat: 2, BattingTeam: "B"},
		{MatchID: id, Innings: 2, Over: 0, Ball: 2, WicketType: "caught", BattingTeam: "B"},
		{MatchID: id, Innings: 2, Over: 1, Ball: 1, RunsOffBat: 4, BattingTeam: "B"},
	}
}

func newTestRepository() *MatchRepository {
	repo := NewMatchRepository(nil, nil)
	m1, d1 := twoBallMatch(1, "Wankhede Stadium", day1, "A")
	m2, d2 := twoBallMatch(2, "Wankhede Stadium", day2, "B")
	m3, d3 := twoBallMatch(3, "Eden Gardens", day1, "")
	repo.Add(m1, d1)
	repo.Add(m2, d2)
	repo.Add(m3, d3)
	return repo
}

func TestMatchRepository_StateAggregates(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	got, err := repo.ListStateAggregates(context.Background(), match.StateFilter{
		Scope:   match.Scope{Venues: []string{"Wankhede Stadium"}},
		Innings: 1,
		Before:  cutoff,
		Format:  match.T20(),
	})
	require.NoError(t, err)

	want := []match.StateAggregate{
		{Over: 0, Wickets: 0, Samples: 1, AvgRunsSoFar: 4, AvgFinalScore: 11},
		{Over: 0, Wickets: 1, Samples: 2, AvgRunsSoFar: 5, AvgFinalScore: 11},
		{Over: 1, Wickets: 1, Samples: 1, AvgRunsSoFar: 11, AvgFinalScore: 11},
	}
	assert.Equal(t, want, got)
}

func TestMatchRepository_StateAggregates_WicketCapExcludesAllOut(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	format := match.Format{MaxOvers: 20, MaxWickets: 1, BallsPerOver: 6}
	got, err := repo.ListStateAggregates(context.Background(), match.StateFilter{
		Scope:   match.Scope{Venues: []string{"Wankhede Stadium"}},
		Innings: 1,
		Before:  cutoff,
		Format:  format,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Wickets)
}

func TestMatchRepository_ChaseOutcomes(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	got, err := repo.ListChaseOutcomes(context.Background(), match.ChaseFilter{
		Scope:  match.Scope{},
		Before: time.Time{},
		Format: match.T20(),
	})
	require.NoError(t, err)

	// match 3 has no winner and is skipped; match 1 lost, match 2 won
	want := []match.ChaseOutcome{
		{Over: 0, RunsSoFar: 2, Wickets: 0, Target: 12, Won: false, Samples: 1},
		{Over: 0, RunsSoFar: 2, Wickets: 0, Target: 12, Won: true, Samples: 1},
		{Over: 0, RunsSoFar: 2, Wickets: 1, Target: 12, Won: false, Samples: 1},
		{Over: 0, RunsSoFar: 2, Wickets: 1, Target: 12, Won: true, Samples: 1},
		{Over: 1, RunsSoFar: 6, Wickets: 1, Target: 12, Won: false, Samples: 1},
		{Over: 1, RunsSoFar: 6, Wickets: 1, Target: 12, Won: true, Samples: 1},
	}
	assert.Equal(t, want, got)
}

func TestMatchRepository_NoLookahead(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	ctx := context.Background()
	scope := match.Scope{Venues: []string{"Wankhede Stadium"}}

	count, err := repo.CountMatches(ctx, scope, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	relaxed, err := repo.CountMatches(ctx, scope, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, relaxed)

	// a match on the cutoff date itself is excluded
	onCutoff, err := repo.CountMatches(ctx, scope, day2)
	require.NoError(t, err)
	assert.Equal(t, 1, onCutoff)

	outcomes, err := repo.ListChaseOutcomes(ctx, match.ChaseFilter{Scope: scope, Before: cutoff, Format: match.T20()})
	require.NoError(t, err)
	for _, o := range outcomes {
		assert.False(t, o.Won, "match after cutoff leaked into %+v", o)
	}
}

func TestMatchRepository_ScopePatternsAndLeague(t *testing.T) {
	t.Parallel()

	repo := newTestRepository()
	ctx := context.Background()

	count, err := repo.CountMatches(ctx, match.Scope{VenuePatterns: []string{"eden"}}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountMatches(ctx, match.Scope{League: "indian premier league"}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.CountMatches(ctx, match.Scope{League: "T20I"}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMatchRepository_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestRepository().CountMatches(ctx, match.Scope{}, time.Time{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSeedMatches_Deterministic(t *testing.T) {
	t.Parallel()

	m1, d1 := SeedMatches(12)
	m2, d2 := SeedMatches(12)
	require.Len(t, m1, 12)
	assert.Equal(t, m1, m2)
	assert.Equal(t, d1, d2)

	format := match.T20()
	for _, d := range d1 {
		require.True(t, d.Innings == 1 || d.Innings == 2)
		require.True(t, d.Over >= 0 && d.Over < format.MaxOvers)
	}
}
