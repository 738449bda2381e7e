package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all gateway Prometheus metrics.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	ResolutionsTotal  *prometheus.CounterVec
	TableCacheHits    prometheus.Counter
	TableCacheMisses  prometheus.Counter
	TableBuilds       prometheus.Counter
	DefinitionsLoaded prometheus.Gauge
	RateLimitedTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers all gateway metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Total number of requests processed.",
			},
			[]string{"definition", "status", "method"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "gateway_request_duration_seconds",
				Help: "Request duration in seconds.",
				// Buckets: 5ms, 10ms, 25ms, 50ms, 100ms, 250ms, 500ms, 1s, 2.5s, 5s, 10s
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"definition"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_resolutions_total",
				Help: "Resolution outcomes: host, path, none, error.",
			},
			[]string{"outcome"},
		),
		TableCacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_table_cache_hits_total",
				Help: "Routing table served from cache.",
			},
		),
		TableCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_table_cache_misses_total",
				Help: "Routing table cache misses (expired or empty).",
			},
		),
		TableBuilds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_table_builds_total",
				Help: "Routing table rebuilds from the definition store.",
			},
		),
		DefinitionsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gateway_definitions_loaded",
				Help: "Definitions in the most recent table build.",
			},
		),
		RateLimitedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_rate_limited_total",
				Help: "Total number of rate-limited requests.",
			},
			[]string{"client"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ResolutionsTotal,
		m.TableCacheHits,
		m.TableCacheMisses,
		m.TableBuilds,
		m.DefinitionsLoaded,
		m.RateLimitedTotal,
	)

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
