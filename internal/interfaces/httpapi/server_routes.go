package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /metrics", handler.Metrics)
}

func registerLookupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/resource", handler.GetResourcePercentage)
	mux.HandleFunc("GET /v1/resource/table", handler.GetResourceTable)
	mux.HandleFunc("GET /v1/win-probability", handler.GetWinProbability)
	mux.HandleFunc("GET /v1/win-probability/precomputed", handler.GetPrecomputedWinProbability)
	mux.HandleFunc("POST /v1/wpa/innings", handler.PostInningsWPA)
}

func registerVenueRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/venues/cluster", handler.GetVenueCluster)
	mux.HandleFunc("GET /v1/venues/hierarchy", handler.GetVenueHierarchy)
}
