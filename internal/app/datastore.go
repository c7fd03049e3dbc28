package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/cricket-context/internal/config"
	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/domain/winprob"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

// datastore is the raw store pair before guarding and caching.
type datastore struct {
	matches match.Repository
	lookups precomputed.Repository
	close   func() error
}

func openDatastore(ctx context.Context, cfg config.Config, venues *venue.Manager, format match.Format, logger *logging.Logger) (datastore, error) {
	if cfg.DBURL == "" {
		matches, deliveries := memory.SeedMatches(cfg.DevSeedMatches)
		matchRepo := memory.NewMatchRepository(matches, deliveries)
		rows, err := buildSeedLookupRows(ctx, matchRepo, venues, matches, format, time.Now().UTC())
		if err != nil {
			return datastore{}, err
		}
		logger.Info("using in-memory datastore",
			"matches", len(matches),
			"deliveries", len(deliveries),
			"wp_lookup_rows", len(rows),
		)
		return datastore{
			matches: matchRepo,
			lookups: memory.NewLookupRepository(rows),
			close:   func() error { return nil },
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return datastore{}, err
	}

	if cfg.AppEnv == config.EnvDev && cfg.DevSeedMatches > 0 {
		matches, deliveries := memory.SeedMatches(cfg.DevSeedMatches)
		rows, err := buildSeedLookupRows(ctx, memory.NewMatchRepository(matches, deliveries), venues, matches, format, time.Now().UTC())
		if err != nil {
			_ = db.Close()
			return datastore{}, err
		}
		if err := postgres.BootstrapSeed(ctx, db, matches, deliveries, rows); err != nil {
			_ = db.Close()
			return datastore{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	logger.Info("using postgres datastore", "db_name", dbNameFromURL(cfg.DBURL))
	return datastore{
		matches: postgres.NewMatchRepository(db),
		lookups: postgres.NewLookupRepository(db),
		close:   db.Close,
	}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(withApplicationName(cfg.DBURL, cfg.ServiceName), cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
		otelsql.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBQueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

// buildSeedLookupRows materialises global, cluster and venue rows from the
// seeded matches so the precomputed path has data in local runs.
func buildSeedLookupRows(ctx context.Context, repo match.Repository, venues *venue.Manager, matches []match.Match, format match.Format, computedAt time.Time) ([]precomputed.Row, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	var dataThrough time.Time
	seen := make(map[string]string)
	leagues := make(map[string]string)
	for _, m := range matches {
		if m.Date.After(dataThrough) {
			dataThrough = m.Date
		}
		canonical := venues.NormalizeName(m.Venue)
		if _, ok := seen[canonical]; !ok {
			seen[canonical] = m.Venue
		}
		if key := precomputed.LeagueScopeKey(m.Competition); key != "" {
			leagues[key] = m.Competition
		}
	}

	type target struct {
		level fallback.Source
		key   string
		scope match.Scope
	}
	targets := []target{{level: fallback.SourceGlobal, key: precomputed.GlobalScopeKey}}
	for _, cluster := range venues.Clusters() {
		targets = append(targets, target{
			level: fallback.SourceCluster,
			key:   cluster,
			scope: match.Scope{VenuePatterns: venues.ClusterPatterns(cluster)},
		})
	}
	for key, league := range leagues {
		targets = append(targets, target{
			level: fallback.SourceLeague,
			key:   key,
			scope: match.Scope{League: league},
		})
	}
	for canonical, raw := range seen {
		targets = append(targets, target{
			level: fallback.SourceVenue,
			key:   canonical,
			scope: match.Scope{Venues: venues.Aliases(raw)},
		})
	}

	var rows []precomputed.Row
	for _, t := range targets {
		outcomes, err := repo.ListChaseOutcomes(ctx, match.ChaseFilter{Scope: t.scope, Format: format})
		if err != nil {
			return nil, fmt.Errorf("list chase outcomes for %s %s: %w", t.level, t.key, err)
		}
		rows = append(rows, winprob.BuildLookupRows(outcomes, t.level, t.key, dataThrough, computedAt)...)
	}
	return rows, nil
}
