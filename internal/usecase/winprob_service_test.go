package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

func newWinProbabilityService(repo match.Repository, settings LookupSettings, observer Observer) *WinProbabilityService {
	return NewWinProbabilityService(defaultVenues(), newExtractor(repo, observer), settings, logging.NewNop(), observer)
}

func chaseQuery() WinProbabilityQuery {
	return WinProbabilityQuery{
		Venue:   "Wankhede Stadium",
		Target:  150,
		Over:    10,
		Ball:    1,
		Wickets: 0,
		Score:   80,
		Before:  cutoff,
	}
}

func TestWinProbabilityService_ClusterScenario(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	svc := newWinProbabilityService(clusterScenario(), DefaultLookupSettings(), observer)

	got, err := svc.WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceCluster, got.Source)
	assert.Equal(t, 20, got.SampleSize)
	assert.InDelta(t, 0.6, got.Value, 1e-9)
	assert.Equal(t, []string{"win_probability:cluster"}, observer.lookups)
}

func TestWinProbabilityService_EmptyStoreAnswersHeuristic(t *testing.T) {
	t.Parallel()

	svc := newWinProbabilityService(memory.NewMatchRepository(nil, nil), DefaultLookupSettings(), nil)

	q := chaseQuery()
	q.Ball = 0
	q.Wickets = 2
	got, err := svc.WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceHeuristic, got.Source)
	// 70 needed off 10 overs with 8 wickets in hand.
	assert.InDelta(t, 0.48, got.Value, 1e-9)
}

func TestWinProbabilityService_TerminalStates(t *testing.T) {
	t.Parallel()

	svc := newWinProbabilityService(clusterScenario(), DefaultLookupSettings(), nil)
	tests := []struct {
		name string
		q    func(WinProbabilityQuery) WinProbabilityQuery
		want float64
	}{
		{
			name: "target reached",
			q:    func(q WinProbabilityQuery) WinProbabilityQuery { q.Score = 150; return q },
			want: 1,
		},
		{
			name: "all out",
			q:    func(q WinProbabilityQuery) WinProbabilityQuery { q.Wickets = 10; return q },
			want: 0,
		},
		{
			name: "balls exhausted",
			q: func(q WinProbabilityQuery) WinProbabilityQuery {
				q.Over, q.Ball, q.Score = 19, 6, 149
				return q
			},
			want: 0,
		},
	}
	for _, tc := range tests {
		got, err := svc.WinProbability(t.Context(), tc.q(chaseQuery()))
		require.NoError(t, err, tc.name)
		assert.Equal(t, fallback.SourceHeuristic, got.Source, tc.name)
		assert.Equal(t, tc.want, got.Value, tc.name)
	}
}

func TestWinProbabilityService_ValuesStayInUnitInterval(t *testing.T) {
	t.Parallel()

	svc := newWinProbabilityService(memory.NewMatchRepository(memory.SeedMatches(40)), DefaultLookupSettings(), nil)
	for over := 0; over < 20; over += 3 {
		for wickets := 0; wickets <= 10; wickets += 2 {
			for _, score := range []int{0, 45, 90, 170} {
				q := chaseQuery()
				q.Venue = "Eden Gardens"
				q.Before = cutoff.AddDate(5, 0, 0)
				q.Target = 171
				q.Over, q.Ball, q.Wickets, q.Score = over, 0, wickets, score
				got, err := svc.WinProbability(t.Context(), q)
				require.NoError(t, err)
				if got.Value < 0 || got.Value > 1 {
					t.Fatalf("probability out of range for %+v: %v", q, got.Value)
				}
			}
		}
	}
}

func TestWinProbabilityService_IgnoresMatchesAfterCutoff(t *testing.T) {
	t.Parallel()

	base := clusterScenario()
	withFuture := clusterScenario()
	for i := 0; i < 30; i++ {
		m, deliveries := chaseFixture(int64(500+i), "Wankhede Stadium", cutoff.AddDate(0, 0, i), true)
		withFuture.Add(m, deliveries)
	}

	want, err := newWinProbabilityService(base, DefaultLookupSettings(), nil).WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	got, err := newWinProbabilityService(withFuture, DefaultLookupSettings(), nil).WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Moving the cutoff past the new matches lets the venue level answer.
	q := chaseQuery()
	q.Before = cutoff.AddDate(1, 0, 0)
	later, err := newWinProbabilityService(withFuture, DefaultLookupSettings(), nil).WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceVenue, later.Source)
}

func TestWinProbabilityService_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newWinProbabilityService(clusterScenario(), DefaultLookupSettings(), nil)
	first, err := svc.WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	second, err := svc.WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWinProbabilityService_RejectsInvalidState(t *testing.T) {
	t.Parallel()

	svc := newWinProbabilityService(memory.NewMatchRepository(nil, nil), DefaultLookupSettings(), nil)
	tests := map[string]func(*WinProbabilityQuery){
		"ball above six":  func(q *WinProbabilityQuery) { q.Ball = 7 },
		"negative score":  func(q *WinProbabilityQuery) { q.Score = -1 },
		"negative target": func(q *WinProbabilityQuery) { q.Target = -5 },
		"wickets above":   func(q *WinProbabilityQuery) { q.Wickets = 11 },
		"over too large":  func(q *WinProbabilityQuery) { q.Over = 20 },
	}
	for name, mutate := range tests {
		q := chaseQuery()
		mutate(&q)
		if _, err := svc.WinProbability(t.Context(), q); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("%s: expected ErrInvalidState, got %v", name, err)
		}
	}
}
