package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/memory"
	precomputedmock "github.com/riskibarqy/cricket-context/internal/mocks/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
)

func newPrecomputedService(repo precomputed.Repository, settings LookupSettings, observer Observer) *PrecomputedService {
	return NewPrecomputedService(defaultVenues(), repo, settings, logging.NewNop(), observer)
}

func atLevel(level fallback.Source) any {
	return mock.MatchedBy(func(q precomputed.Query) bool { return q.Level == level })
}

func TestPrecomputedService_BucketsTheQuery(t *testing.T) {
	t.Parallel()

	repo := precomputedmock.NewRepository(t)
	row := precomputed.Row{Level: fallback.SourceVenue, WinProbability: 0.64, SampleSize: 12}
	repo.
		On("FindLatest", mock.Anything, mock.MatchedBy(func(q precomputed.Query) bool {
			return q.Level == fallback.SourceVenue &&
				q.ScopeKey == "Wankhede Stadium" &&
				q.TargetBucket == 150 &&
				q.OverBucket == 10 &&
				q.WicketsLost == 0 &&
				q.Score == 80 &&
				q.Before.Equal(cutoff) &&
				q.MinSampleSize == 5
		})).
		Return(row, true, nil).
		Once()

	q := chaseQuery()
	q.Target = 156
	q.Over = 11
	got, err := newPrecomputedService(repo, DefaultLookupSettings(), nil).WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.Result[float64]{Value: 0.64, Source: fallback.SourceVenue, SampleSize: 12}, got)
}

func TestPrecomputedService_FallsThroughLevels(t *testing.T) {
	t.Parallel()

	repo := precomputedmock.NewRepository(t)
	observer := &recordingObserver{}
	repo.On("FindLatest", mock.Anything, atLevel(fallback.SourceVenue)).
		Return(precomputed.Row{}, false, match.MarkDataSource(errors.New("connection refused"))).
		Once()
	repo.On("FindLatest", mock.Anything, atLevel(fallback.SourceCluster)).
		Return(precomputed.Row{Level: fallback.SourceCluster, ScopeKey: "high_scoring", WinProbability: 0.55, SampleSize: 40}, true, nil).
		Once()

	got, err := newPrecomputedService(repo, DefaultLookupSettings(), observer).WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceCluster, got.Source)
	assert.InDelta(t, 0.55, got.Value, 1e-9)
	assert.Equal(t, []string{"wp_lookup"}, observer.dataErrors)
	assert.Equal(t, []string{"precomputed:cluster"}, observer.lookups)
}

func TestPrecomputedService_HeuristicWhenNothingMatches(t *testing.T) {
	t.Parallel()

	repo := precomputedmock.NewRepository(t)
	repo.On("FindLatest", mock.Anything, mock.Anything).Return(precomputed.Row{}, false, nil)

	q := chaseQuery()
	q.League = "Indian Premier League"
	got, err := newPrecomputedService(repo, DefaultLookupSettings(), nil).WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceHeuristic, got.Source)
	assert.InDelta(t, winprob.Heuristic(q.State(), match.T20()), got.Value, 1e-9)
	// venue, cluster, league, global
	repo.AssertNumberOfCalls(t, "FindLatest", 4)
}

func TestPrecomputedService_RelaxedReadsVenueRowsWithoutCutoff(t *testing.T) {
	t.Parallel()

	repo := precomputedmock.NewRepository(t)
	repo.On("FindLatest", mock.Anything, mock.MatchedBy(func(q precomputed.Query) bool {
		return q.Level == fallback.SourceVenue && !q.Before.IsZero()
	})).Return(precomputed.Row{}, false, nil).Once()
	repo.On("FindLatest", mock.Anything, mock.MatchedBy(func(q precomputed.Query) bool {
		return q.Level == fallback.SourceVenue && q.Before.IsZero()
	})).Return(precomputed.Row{Level: fallback.SourceVenue, WinProbability: 0.7, SampleSize: 9}, true, nil).Once()

	settings := DefaultLookupSettings()
	settings.AllowRelaxed = true
	q := chaseQuery()
	q.Relaxed = true
	got, err := newPrecomputedService(repo, settings, nil).WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceVenueRelaxed, got.Source)
	assert.InDelta(t, 0.7, got.Value, 1e-9)
}

func TestPrecomputedService_ReadsRowsWrittenByBuilder(t *testing.T) {
	t.Parallel()

	outcomes := []match.ChaseOutcome{
		{Over: 10, RunsSoFar: 80, Wickets: 0, Target: 150, Won: true, Samples: 12},
		{Over: 10, RunsSoFar: 80, Wickets: 0, Target: 150, Won: false, Samples: 8},
	}
	dataThrough := cutoff.AddDate(0, -1, 0)
	rows := winprob.BuildLookupRows(outcomes, fallback.SourceCluster, "high_scoring", dataThrough, time.Now())
	repo := memory.NewLookupRepository(rows)

	got, err := newPrecomputedService(repo, DefaultLookupSettings(), nil).WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceCluster, got.Source)
	assert.Equal(t, 20, got.SampleSize)
	assert.InDelta(t, 0.6, got.Value, 1e-9)

	// Rows computed on data up to the cutoff are not visible to it.
	q := chaseQuery()
	q.Before = dataThrough
	got, err = newPrecomputedService(repo, DefaultLookupSettings(), nil).WinProbability(t.Context(), q)
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceHeuristic, got.Source)
}

func TestPrecomputedService_LeagueKeyIgnoresCase(t *testing.T) {
	t.Parallel()

	outcomes := []match.ChaseOutcome{
		{Over: 10, RunsSoFar: 80, Wickets: 0, Target: 150, Won: true, Samples: 30},
		{Over: 10, RunsSoFar: 80, Wickets: 0, Target: 150, Won: false, Samples: 30},
	}
	key := precomputed.LeagueScopeKey("IPL")
	rows := winprob.BuildLookupRows(outcomes, fallback.SourceLeague, key, cutoff.AddDate(0, -1, 0), time.Now())
	repo := memory.NewLookupRepository(rows)

	for _, league := range []string{"IPL", "ipl", " Ipl "} {
		q := chaseQuery()
		q.League = league
		got, err := newPrecomputedService(repo, DefaultLookupSettings(), nil).WinProbability(t.Context(), q)
		require.NoError(t, err)
		assert.Equal(t, fallback.SourceLeague, got.Source, league)
		assert.InDelta(t, 0.5, got.Value, 1e-9)
	}
}
