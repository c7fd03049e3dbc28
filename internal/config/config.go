package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/cricket-context/internal/domain/fallback"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"github.com/riskibarqy/cricket-context/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                       string
	ServiceName                  string
	ServiceVersion               string
	HTTPAddr                     string
	DBURL                        string
	DBDisablePreparedBinary      bool
	DBQueryTimeout               time.Duration
	DBMaxOpenConns               int
	DevSeedMatches               int
	CacheEnabled                 bool
	CacheTTL                     time.Duration
	RedisURL                     string
	CORSAllowedOrigins           []string
	ReadTimeout                  time.Duration
	WriteTimeout                 time.Duration
	DatastoreCircuit             resilience.CircuitBreakerConfig
	LookupThresholds             fallback.Thresholds
	LookupAllowRelaxedChronology bool
	LookupMonotoneResource       bool
	VenueConfigFile              string
	WPAWorkers                   int
	UptraceEnabled               bool
	UptraceDSN                   string
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string
	PyroscopeAppName             string
	PyroscopeAuthToken           string
	PyroscopeBasicAuthUser       string
	PyroscopeBasicAuthPassword   string
	PyroscopeUploadRate          time.Duration
	LogLevel                     logging.Level
}

// Load reads the environment. An empty DB_URL selects the in-memory store
// seeded with DEV_SEED_MATCHES simulated matches.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	dbQueryTimeout, err := time.ParseDuration(getEnv("DB_QUERY_TIMEOUT", "2s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_QUERY_TIMEOUT: %w", err)
	}
	if dbQueryTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_QUERY_TIMEOUT must be > 0")
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	devSeedMatches, err := getEnvAsInt("DEV_SEED_MATCHES", 120)
	if err != nil {
		return Config{}, fmt.Errorf("parse DEV_SEED_MATCHES: %w", err)
	}
	if devSeedMatches < 0 {
		return Config{}, fmt.Errorf("DEV_SEED_MATCHES must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	circuitDefaults := resilience.DatastoreDefaults()
	circuitEnabled, err := strconv.ParseBool(getEnv("DATASTORE_CIRCUIT_ENABLED", strconv.FormatBool(circuitDefaults.Enabled)))
	if err != nil {
		return Config{}, fmt.Errorf("parse DATASTORE_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("DATASTORE_CIRCUIT_FAILURE_COUNT", circuitDefaults.FailureThreshold)
	if err != nil {
		return Config{}, fmt.Errorf("parse DATASTORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	circuitOpenTimeout, err := time.ParseDuration(getEnv("DATASTORE_CIRCUIT_OPEN_TIMEOUT", circuitDefaults.OpenTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("parse DATASTORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("DATASTORE_CIRCUIT_HALF_OPEN_MAX_REQ", circuitDefaults.HalfOpenMaxReq)
	if err != nil {
		return Config{}, fmt.Errorf("parse DATASTORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	breaker := resilience.CircuitBreakerConfig{
		Enabled:          circuitEnabled,
		FailureThreshold: circuitFailureCount,
		OpenTimeout:      circuitOpenTimeout,
		HalfOpenMaxReq:   circuitHalfOpenMaxReq,
	}
	if err := breaker.Validate(); err != nil {
		return Config{}, fmt.Errorf("DATASTORE_CIRCUIT_*: %w", err)
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return Config{}, err
	}
	allowRelaxed, err := strconv.ParseBool(getEnv("LOOKUP_ALLOW_RELAXED_CHRONOLOGY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOOKUP_ALLOW_RELAXED_CHRONOLOGY: %w", err)
	}
	monotoneResource, err := strconv.ParseBool(getEnv("LOOKUP_MONOTONE_RESOURCE", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOOKUP_MONOTONE_RESOURCE: %w", err)
	}

	wpaWorkers, err := getEnvAsInt("WPA_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WPA_WORKERS: %w", err)
	}
	if wpaWorkers < 1 {
		return Config{}, fmt.Errorf("WPA_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                       appEnv,
		ServiceName:                  getEnv("APP_SERVICE_NAME", "cricket-context-api"),
		ServiceVersion:               getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                     getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                        strings.TrimSpace(os.Getenv("DB_URL")),
		DBDisablePreparedBinary:      dbDisablePreparedBinary,
		DBQueryTimeout:               dbQueryTimeout,
		DBMaxOpenConns:               dbMaxOpenConns,
		DevSeedMatches:               devSeedMatches,
		CacheEnabled:                 cacheEnabled,
		CacheTTL:                     cacheTTL,
		RedisURL:                     strings.TrimSpace(getEnv("REDIS_URL", "")),
		CORSAllowedOrigins:           splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                  readTimeout,
		WriteTimeout:                 writeTimeout,
		DatastoreCircuit:             breaker,
		LookupThresholds:             thresholds,
		LookupAllowRelaxedChronology: allowRelaxed,
		LookupMonotoneResource:       monotoneResource,
		VenueConfigFile:              strings.TrimSpace(getEnv("VENUE_CONFIG_FILE", "")),
		WPAWorkers:                   wpaWorkers,
		UptraceEnabled:               uptraceEnabled,
		UptraceDSN:                   uptraceDSN,
		PyroscopeEnabled:             pyroscopeEnabled,
		PyroscopeServerAddress:       pyroscopeServerAddress,
		PyroscopeAuthToken:           strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:       strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:   strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:          pyroscopeUploadRate,
		LogLevel:                     logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func loadThresholds() (fallback.Thresholds, error) {
	t := fallback.DefaultThresholds()
	fields := []struct {
		key string
		dst *int
	}{
		{"LOOKUP_MIN_MATCHES_VENUE", &t.MinMatchesVenue},
		{"LOOKUP_MIN_MATCHES_CLUSTER", &t.MinMatchesCluster},
		{"LOOKUP_MIN_MATCHES_LEAGUE", &t.MinMatchesLeague},
		{"LOOKUP_MIN_RESOURCE_CELL_SAMPLES", &t.MinResourceCellSamples},
		{"LOOKUP_MIN_WP_SAMPLES_VENUE", &t.MinWinProbSamplesVenue},
		{"LOOKUP_MIN_WP_SAMPLES_CLUSTER", &t.MinWinProbSamplesCluster},
		{"LOOKUP_MIN_WP_SAMPLES_LEAGUE", &t.MinWinProbSamplesLeague},
		{"LOOKUP_MIN_WP_SAMPLES_GLOBAL", &t.MinWinProbSamplesGlobal},
		{"LOOKUP_MIN_PRECOMPUTED_SAMPLES", &t.MinPrecomputedSamples},
	}
	for _, f := range fields {
		v, err := getEnvAsInt(f.key, *f.dst)
		if err != nil {
			return fallback.Thresholds{}, fmt.Errorf("parse %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if err := t.Validate(); err != nil {
		return fallback.Thresholds{}, fmt.Errorf("lookup thresholds: %w", err)
	}
	return t, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
