package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/cricket-context/internal/config"
	"github.com/riskibarqy/cricket-context/internal/domain/match"
	"github.com/riskibarqy/cricket-context/internal/domain/precomputed"
	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	cacherepo "github.com/riskibarqy/cricket-context/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/cricket-context/internal/interfaces/httpapi"
	"github.com/riskibarqy/cricket-context/internal/platform/cache"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"github.com/riskibarqy/cricket-context/internal/platform/metrics"
	"github.com/riskibarqy/cricket-context/internal/platform/resilience"
	"github.com/riskibarqy/cricket-context/internal/usecase"
)

const redisKeyPrefix = "cricket-context:"

// NewHTTPServer wires the datastore, caches, services and router. The
// returned cleanup releases the datastore and the redis client.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	registry := metrics.New()

	venueCfg := venue.DefaultConfig()
	if cfg.VenueConfigFile != "" {
		loaded, err := venue.LoadConfig(cfg.VenueConfigFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load venue config: %w", err)
		}
		venueCfg = loaded
		logger.Info("venue config loaded", "path", cfg.VenueConfigFile, "clusters", len(venueCfg.Clusters))
	}
	venues := venue.NewManager(venueCfg)

	settings := usecase.DefaultLookupSettings()
	settings.Thresholds = cfg.LookupThresholds
	settings.AllowRelaxed = cfg.LookupAllowRelaxedChronology
	settings.MonotoneResource = cfg.LookupMonotoneResource

	store, err := openDatastore(ctx, cfg, venues, settings.Format, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{store.close}
	cleanup := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	guard := guarded.NewGuard(cfg.DBQueryTimeout, newBreaker(cfg, registry, logger))
	var (
		matchRepo  match.Repository       = guarded.NewMatchRepository(store.matches, guard)
		lookupRepo precomputed.Repository = guarded.NewLookupRepository(store.lookups, guard)
	)

	if cfg.CacheEnabled {
		opts := []cache.Option{cache.WithObserver(registry.ObserveCache)}
		if cfg.RedisURL != "" {
			client, err := cache.NewRedisClient(cfg.RedisURL)
			if err != nil {
				_ = cleanup()
				return nil, nil, fmt.Errorf("build redis client: %w", err)
			}
			closers = append(closers, client.Close)
			opts = append(opts, cache.WithRemote(cache.NewRedisRemote(client, redisKeyPrefix)))
		}
		cacheStore := cache.NewStore(cfg.CacheTTL, opts...)
		matchRepo = cacherepo.NewMatchRepository(matchRepo, cacheStore)
		lookupRepo = cacherepo.NewLookupRepository(lookupRepo, cacheStore)
	}

	extractor := usecase.NewHistoricalStateExtractor(matchRepo, logger, registry)
	resourceSvc := usecase.NewResourceService(venues, extractor, settings, logger, registry)
	winProbSvc := usecase.NewWinProbabilityService(venues, extractor, settings, logger, registry)
	precomputedSvc := usecase.NewPrecomputedService(venues, lookupRepo, settings, logger, registry)
	venueSvc := usecase.NewVenueService(venues, extractor, settings)
	wpaSvc := usecase.NewWPAService(winProbSvc, settings.Format, cfg.WPAWorkers)

	handler := httpapi.NewHandler(resourceSvc, winProbSvc, precomputedSvc, venueSvc, wpaSvc, registry.Handler(), logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func newBreaker(cfg config.Config, registry *metrics.Registry, logger *logging.Logger) *resilience.CircuitBreaker {
	if !cfg.DatastoreCircuit.Enabled {
		return nil
	}

	breaker := resilience.NewCircuitBreaker(cfg.DatastoreCircuit)
	registry.ObserveBreakerState(string(resilience.CircuitStateClosed))
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		registry.ObserveBreakerState(string(to))
		logger.Warn("datastore circuit breaker transition", "from", string(from), "to", string(to))
	})
	return breaker
}
