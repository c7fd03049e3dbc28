package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
)

// level is one step of the fallback hierarchy. A zero before means the step
// ignores the chronological cutoff.
type level struct {
	source   fallback.Source
	scope    match.Scope
	scopeKey string
	before   time.Time
}

// fallbackChain plans levels from most to least specific and evaluates them
// strictly in that order.
type fallbackChain struct {
	venues    *venue.Manager
	extractor *HistoricalStateExtractor
	settings  LookupSettings
}

// plan lists venue, venue_relaxed, cluster, league and global. venue_relaxed
// appears only when the deployment allows it and the caller asked for it;
// cluster and league are skipped when the venue has no cluster or no league
// was given.
func (c fallbackChain) plan(rawVenue, league string, before time.Time, relaxed bool) []level {
	levels := make([]level, 0, 5)

	venueScope := match.Scope{Venues: c.venues.Aliases(rawVenue)}
	venueKey := c.venues.NormalizeName(rawVenue)
	levels = append(levels, level{source: fallback.SourceVenue, scope: venueScope, scopeKey: venueKey, before: before})
	if relaxed && c.settings.AllowRelaxed {
		levels = append(levels, level{source: fallback.SourceVenueRelaxed, scope: venueScope, scopeKey: venueKey})
	}

	if cluster, ok := c.venues.Cluster(rawVenue); ok {
		levels = append(levels, level{
			source:   fallback.SourceCluster,
			scope:    match.Scope{VenuePatterns: c.venues.ClusterPatterns(cluster)},
			scopeKey: cluster,
			before:   before,
		})
	}

	if league = strings.TrimSpace(league); league != "" {
		levels = append(levels, level{
			source:   fallback.SourceLeague,
			scope:    match.Scope{League: league},
			scopeKey: precomputed.LeagueScopeKey(league),
			before:   before,
		})
	}

	levels = append(levels, level{
		source:   fallback.SourceGlobal,
		scope:    match.Scope{},
		scopeKey: precomputed.GlobalScopeKey,
		before:   before,
	})
	return levels
}

// enoughMatches applies the level's match-count gate.
func (c fallbackChain) enoughMatches(ctx context.Context, l level) (int, bool) {
	count := c.extractor.MatchCount(ctx, l.scope, l.before)
	return count, count >= c.settings.Thresholds.MinMatches(l.source)
}

// firstAnswer returns the first level whose evaluation succeeds. Levels
// failing the match gate are skipped without evaluation.
func firstAnswer[T any](ctx context.Context, c fallbackChain, levels []level, eval func(context.Context, level) (fallback.Result[T], bool)) (fallback.Result[T], bool) {
	for _, l := range levels {
		if err := ctx.Err(); err != nil {
			break
		}
		if _, ok := c.enoughMatches(ctx, l); !ok {
			continue
		}
		if result, ok := eval(ctx, l); ok {
			return result, true
		}
	}
	return fallback.Result[T]{}, false
}
