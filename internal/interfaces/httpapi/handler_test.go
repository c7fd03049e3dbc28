package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/cricket-context/internal/domain/venue"
	"github.com/riskibarqy/cricket-context/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cricket-context/internal/platform/logging"
	"github.com/riskibarqy/cricket-context/internal/platform/metrics"
	"github.com/riskibarqy/cricket-context/internal/usecase"
)

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, corsOrigins ...string) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	registry := metrics.New()
	venues := venue.NewManager(venue.DefaultConfig())
	settings := usecase.DefaultLookupSettings()

	matchRepo := memory.NewMatchRepository(memory.SeedMatches(60))
	extractor := usecase.NewHistoricalStateExtractor(matchRepo, logger, registry)
	winProb := usecase.NewWinProbabilityService(venues, extractor, settings, logger, registry)

	handler := NewHandler(
		usecase.NewResourceService(venues, extractor, settings, logger, registry),
		winProb,
		usecase.NewPrecomputedService(venues, memory.NewLookupRepository(nil), settings, logger, registry),
		usecase.NewVenueService(venues, extractor, settings),
		usecase.NewWPAService(winProb, settings.Format, 2),
		registry.Handler(),
		logger,
	)
	return NewRouter(handler, logger, corsOrigins)
}

func serve(t *testing.T, router http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHandler_ResourcePercentage(t *testing.T) {
	router := newTestRouter(t)

	rec, env := serve(t, router, http.MethodGet, "/v1/resource?venue=Eden+Gardens&innings=1&over=5&wickets=2&before=2020-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, env.Data, "value")
	assert.Contains(t, env.Data, "source")
	assert.Contains(t, env.Data, "sample_size")
	value, _ := env.Data["value"].(float64)
	assert.GreaterOrEqual(t, value, 0.0)
	assert.LessOrEqual(t, value, 100.0)
}

func TestHandler_InvalidStateIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	tests := []string{
		"/v1/resource?venue=Eden+Gardens&innings=1&over=5&wickets=11&before=2020-01-01",
		"/v1/resource?venue=Eden+Gardens&innings=3&over=5&wickets=1&before=2020-01-01",
		"/v1/resource?innings=1&over=5&wickets=1&before=2020-01-01",
		"/v1/win-probability?venue=Eden+Gardens&target=160&over=5&ball=9&wickets=1&score=40&before=2020-01-01",
		"/v1/win-probability?venue=Eden+Gardens&target=160&over=five&before=2020-01-01",
		"/v1/win-probability/precomputed?venue=Eden+Gardens&target=160&over=5&score=40&before=yesterday",
		"/v1/win-probability?venue=Eden+Gardens&over=5&ball=2&wickets=1&score=40&before=2020-01-01",
		"/v1/win-probability?venue=Eden+Gardens&target=160&ball=2&wickets=1&score=40&before=2020-01-01",
		"/v1/win-probability/precomputed?venue=Eden+Gardens&target=160&over=5&wickets=1&before=2020-01-01",
		"/v1/resource?venue=Eden+Gardens&innings=1&over=5&before=2020-01-01",
		"/v1/resource/table?venue=Eden+Gardens&before=2020-01-01",
	}
	for _, target := range tests {
		rec, env := serve(t, router, http.MethodGet, target, "")
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.NotNil(t, env.Error, target)
		assert.Equal(t, "INVALID_ARGUMENT", env.Error.Status, target)
	}
}

func TestHandler_WinProbabilityAndPrecomputed(t *testing.T) {
	router := newTestRouter(t)

	query := "?venue=Wankhede+Stadium&league=Indian+Premier+League&target=171&over=10&ball=0&wickets=3&score=85&before=2019-10-01T00:00:00Z"
	for _, path := range []string{"/v1/win-probability", "/v1/win-probability/precomputed"} {
		rec, env := serve(t, router, http.MethodGet, path+query, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		value, _ := env.Data["value"].(float64)
		assert.GreaterOrEqual(t, value, 0.0, path)
		assert.LessOrEqual(t, value, 1.0, path)
	}

	// Nothing is materialised, so the precomputed path ends at the heuristic.
	_, env := serve(t, router, http.MethodGet, "/v1/win-probability/precomputed"+query, "")
	assert.Equal(t, "heuristic", env.Data["source"])
}

func TestHandler_ResourceTable(t *testing.T) {
	router := newTestRouter(t)

	rec, env := serve(t, router, http.MethodGet, "/v1/resource/table?venue=Eden+Gardens&innings=2&before=2020-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows, ok := env.Data["rows"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 20)
}

func TestHandler_VenueRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, env := serve(t, router, http.MethodGet, "/v1/venues/cluster?venue=Feroz+Shah+Kotla", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arun Jaitley Stadium", env.Data["canonical"])
	assert.Equal(t, "balanced", env.Data["cluster"])

	rec, env = serve(t, router, http.MethodGet, "/v1/venues/hierarchy?venue=Eden+Gardens&before=2020-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	levels, ok := env.Data["levels"].([]any)
	require.True(t, ok)
	assert.Len(t, levels, 3)
}

func TestHandler_InningsWPA(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"venue": "Eden Gardens",
		"target": 12,
		"before": "2020-01-01",
		"balls": [
			{"batter": "Gill", "bowler": "Bumrah", "runs_off_bat": 4},
			{"batter": "Gill", "bowler": "Bumrah", "wicket": true},
			{"batter": "Iyer", "bowler": "Bumrah", "runs_off_bat": 6}
		]
	}`
	rec, env := serve(t, router, http.MethodPost, "/v1/wpa/innings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	balls, ok := env.Data["balls"].([]any)
	require.True(t, ok)
	assert.Len(t, balls, 3)

	rec, _ = serve(t, router, http.MethodPost, "/v1/wpa/innings", `{"venue":"Eden Gardens","unknown":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec, env := serve(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", env.Data["status"])

	serve(t, router, http.MethodGet, "/v1/resource?venue=Eden+Gardens&innings=1&over=5&wickets=2&before=2020-01-01", "")
	rec, _ = serve(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cricket_context_lookups_total")
}
