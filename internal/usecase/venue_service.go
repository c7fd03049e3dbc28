package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/sourcegraph/conc"
)

type VenueCluster struct {
	Venue     string
	Canonical string
	Cluster   string
	Found     bool
}

// LevelCount is the number of qualifying matches behind one fallback level.
type LevelCount struct {
	Source    fallback.Source
	ScopeKey  string
	Matches   int
	Threshold int
	Eligible  bool
}

type HierarchyCounts struct {
	Venue   string
	Levels  []LevelCount
	Relaxed bool
}

type VenueService struct {
	chain fallbackChain
}

func NewVenueService(venues *venue.Manager, extractor *HistoricalStateExtractor, settings LookupSettings) *VenueService {
	return &VenueService{
		chain: fallbackChain{venues: venues, extractor: extractor, settings: settings},
	}
}

func (s *VenueService) VenueCluster(ctx context.Context, rawVenue string) (VenueCluster, error) {
	_, span := startUsecaseSpan(ctx, "usecase.VenueService.VenueCluster")
	defer span.End()

	if strings.TrimSpace(rawVenue) == "" {
		return VenueCluster{}, fmt.Errorf("%w: venue is required", ErrInvalidInput)
	}
	cluster, ok := s.chain.venues.Cluster(rawVenue)
	return VenueCluster{
		Venue:     strings.TrimSpace(rawVenue),
		Canonical: s.chain.venues.NormalizeName(rawVenue),
		Cluster:   cluster,
		Found:     ok,
	}, nil
}

// MatchCount counts the matches played at the venue (any alias) before the cutoff.
func (s *VenueService) MatchCount(ctx context.Context, rawVenue string, before time.Time) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.MatchCount")
	defer span.End()

	if err := validateLookupContext(rawVenue, before); err != nil {
		return 0, err
	}
	scope := match.Scope{Venues: s.chain.venues.Aliases(rawVenue)}
	return s.chain.extractor.MatchCount(ctx, scope, before), nil
}

// HierarchyCounts reports the match count and gate outcome of every planned
// level. Counts run concurrently; the result keeps the chain order.
func (s *VenueService) HierarchyCounts(ctx context.Context, rawVenue, league string, before time.Time, relaxed bool) (HierarchyCounts, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.VenueService.HierarchyCounts")
	defer span.End()

	if err := validateLookupContext(rawVenue, before); err != nil {
		return HierarchyCounts{}, err
	}

	levels := s.chain.plan(rawVenue, league, before, relaxed)
	counts := make([]LevelCount, len(levels))

	var wg conc.WaitGroup
	for i, l := range levels {
		wg.Go(func() {
			matches, eligible := s.chain.enoughMatches(ctx, l)
			counts[i] = LevelCount{
				Source:    l.source,
				ScopeKey:  l.scopeKey,
				Matches:   matches,
				Threshold: s.chain.settings.Thresholds.MinMatches(l.source),
				Eligible:  eligible,
			}
		})
	}
	wg.Wait()

	return HierarchyCounts{
		Venue:   s.chain.venues.NormalizeName(rawVenue),
		Levels:  counts,
		Relaxed: relaxed && s.chain.settings.AllowRelaxed,
	}, nil
}
