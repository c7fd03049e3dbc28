// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cricket_context"

// Lookup kinds.
const (
	KindResource    = "resource"
	KindWinProb     = "win_probability"
	KindPrecomputed = "precomputed"
)

// Registry owns one prometheus registry. A nil *Registry is a valid no-op.
type Registry struct {
	registry *prometheus.Registry

	lookups          *prometheus.CounterVec
	dataSourceErrors *prometheus.CounterVec
	cacheRequests    *prometheus.CounterVec
	breakerState     *prometheus.GaugeVec
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Answered lookups by kind and provenance.",
		}, []string{"kind", "source"}),
		dataSourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_source_errors_total",
			Help:      "Store failures absorbed as empty results.",
		}, []string{"operation"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Aggregate cache lookups by result.",
		}, []string{"result"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "datastore_circuit_open",
			Help:      "1 while the datastore circuit breaker is not closed.",
		}, []string{"state"}),
	}

	r.registry.MustRegister(
		r.lookups,
		r.dataSourceErrors,
		r.cacheRequests,
		r.breakerState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Registry) ObserveLookup(kind, source string) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(kind, source).Inc()
}

func (r *Registry) ObserveDataSourceError(operation string) {
	if r == nil {
		return
	}
	r.dataSourceErrors.WithLabelValues(operation).Inc()
}

func (r *Registry) ObserveCache(result string) {
	if r == nil {
		return
	}
	r.cacheRequests.WithLabelValues(result).Inc()
}

// ObserveBreakerState marks the current breaker state with 1 and the others with 0.
func (r *Registry) ObserveBreakerState(state string) {
	if r == nil {
		return
	}
	for _, s := range []string{"closed", "open", "half_open"} {
		value := 0.0
		if s == state {
			value = 1
		}
		r.breakerState.WithLabelValues(s).Set(value)
	}
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Gatherer(), promhttp.HandlerOpts{})
}
