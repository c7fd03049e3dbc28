package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	matchmock "github.com/riskibarqy/cricket-context/internal/mocks/domain/match"
)

func TestHistoricalStateExtractor_AbsorbsDataSourceErrorsUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	observer := &recordingObserver{}
	down := match.MarkDataSource(errors.New("dial tcp: connection refused"))

	repo.On("ListStateAggregates", mock.Anything, mock.Anything).Return(nil, down).Once()
	repo.On("ListChaseOutcomes", mock.Anything, mock.Anything).Return(nil, down).Once()
	repo.On("CountMatches", mock.Anything, mock.Anything, mock.Anything).Return(0, down).Once()

	extractor := newExtractor(repo, observer)
	scope := match.Scope{Venues: []string{"Eden Gardens"}}

	assert.Empty(t, extractor.MatchStates(t.Context(), scope, 1, cutoff, match.T20()))
	assert.Empty(t, extractor.ChaseOutcomes(t.Context(), scope, cutoff, match.T20()))
	assert.Zero(t, extractor.MatchCount(t.Context(), scope, cutoff))
	assert.Equal(t, []string{"match_states", "chase_outcomes", "match_count"}, observer.dataErrors)
}

func TestHistoricalStateExtractor_SanitisesAndOrdersUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	filter := match.StateFilter{
		Scope:   match.Scope{League: "Indian Premier League"},
		Innings: 2,
		Before:  cutoff,
		Format:  match.T20(),
	}
	repo.
		On("ListStateAggregates", mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil }), filter).
		Return([]match.StateAggregate{
			{Over: 3, Wickets: 1, Samples: 4, AvgRunsSoFar: 30, AvgFinalScore: math.NaN()},
			{Over: 1, Wickets: 0, Samples: 0, AvgRunsSoFar: 9, AvgFinalScore: 150},
			{Over: 1, Wickets: 2, Samples: 6, AvgRunsSoFar: math.Inf(1), AvgFinalScore: 140},
		}, nil).
		Once()

	got := newExtractor(repo, nil).MatchStates(t.Context(), filter.Scope, 2, cutoff, match.T20())
	require.Len(t, got, 2)
	assert.Equal(t, match.StateAggregate{Over: 1, Wickets: 2, Samples: 6, AvgRunsSoFar: 0, AvgFinalScore: 140}, got[0])
	assert.Equal(t, match.StateAggregate{Over: 3, Wickets: 1, Samples: 4, AvgRunsSoFar: 30, AvgFinalScore: 0}, got[1])
}

func TestServices_NeverFailOnStoreOutageUsingMockery(t *testing.T) {
	t.Parallel()

	repo := matchmock.NewRepository(t)
	down := match.MarkDataSource(context.DeadlineExceeded)
	repo.On("CountMatches", mock.Anything, mock.Anything, mock.Anything).Return(0, down)

	observer := &recordingObserver{}
	resourceSvc := newResourceService(repo, DefaultLookupSettings(), observer)
	winSvc := newWinProbabilityService(repo, DefaultLookupSettings(), observer)

	res, err := resourceSvc.ResourcePercentage(t.Context(), ResourceQuery{
		Venue: "Wankhede Stadium", Innings: 1, Over: 5, Wickets: 1, Before: cutoff,
	})
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceHeuristic, res.Source)

	wp, err := winSvc.WinProbability(t.Context(), chaseQuery())
	require.NoError(t, err)
	assert.Equal(t, fallback.SourceHeuristic, wp.Source)

	// venue, cluster and global for each service.
	repo.AssertNumberOfCalls(t, "CountMatches", 6)
	assert.Len(t, observer.dataErrors, 6)
}
