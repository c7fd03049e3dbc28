package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
)

func TestVenueService_VenueCluster(t *testing.T) {
	t.Parallel()

	svc := NewVenueService(defaultVenues(), newExtractor(clusterScenario(), nil), DefaultLookupSettings())

	got, err := svc.VenueCluster(t.Context(), "M.Chinnaswamy Stadium")
	require.NoError(t, err)
	assert.Equal(t, VenueCluster{
		Venue:     "M.Chinnaswamy Stadium",
		Canonical: "M Chinnaswamy Stadium",
		Cluster:   "high_scoring",
		Found:     true,
	}, got)

	got, err = svc.VenueCluster(t.Context(), "Lord's")
	require.NoError(t, err)
	assert.False(t, got.Found)

	_, err = svc.VenueCluster(t.Context(), "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestVenueService_MatchCount(t *testing.T) {
	t.Parallel()

	svc := NewVenueService(defaultVenues(), newExtractor(clusterScenario(), nil), DefaultLookupSettings())

	got, err := svc.MatchCount(t.Context(), "Wankhede Stadium, Mumbai", cutoff)
	require.NoError(t, err)
	assert.Equal(t, 4, got)

	// Matches on or after the cutoff day are excluded.
	got, err = svc.MatchCount(t.Context(), "Wankhede Stadium", seasonStart.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = svc.MatchCount(t.Context(), "Wankhede Stadium", time.Time{})
	assert.True(t, errors.Is(err, ErrInvalidState))
}

func TestVenueService_HierarchyCounts(t *testing.T) {
	t.Parallel()

	svc := NewVenueService(defaultVenues(), newExtractor(clusterScenario(), nil), DefaultLookupSettings())

	got, err := svc.HierarchyCounts(t.Context(), "Wankhede Stadium", "Indian Premier League", cutoff, true)
	require.NoError(t, err)
	assert.Equal(t, "Wankhede Stadium", got.Venue)
	assert.False(t, got.Relaxed)
	assert.Equal(t, []LevelCount{
		{Source: fallback.SourceVenue, ScopeKey: "Wankhede Stadium", Matches: 4, Threshold: 5, Eligible: false},
		{Source: fallback.SourceCluster, ScopeKey: "high_scoring", Matches: 20, Threshold: 15, Eligible: true},
		{Source: fallback.SourceLeague, ScopeKey: "indian premier league", Matches: 20, Threshold: 50, Eligible: false},
		{Source: fallback.SourceGlobal, ScopeKey: "global", Matches: 20, Threshold: 1, Eligible: true},
	}, got.Levels)
}
