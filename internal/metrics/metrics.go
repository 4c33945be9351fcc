package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the catalog backend
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  prometheus.CounterVec
	DBQueryDuration prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal     prometheus.CounterVec
	CacheMissesTotal   prometheus.CounterVec
	CacheInvalidations prometheus.CounterVec

	// Business Metrics
	SeedRowsTotal      prometheus.Counter
	SeedRunDuration    prometheus.Histogram
	MigrationRunsTotal prometheus.CounterVec
	CapabilityProbes   prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "catalog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_db_queries_total",
				Help: "Total database queries by operation type",
			},
			[]string{"query_type"},
		),
		DBQueryDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheInvalidations: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_invalidations_total",
				Help: "Total tag-based cache invalidations by entity tag",
			},
			[]string{"tag"},
		),

		// Business Metrics
		SeedRowsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_seed_rows_total",
				Help: "Total compatibility rows written by seeding runs",
			},
		),
		SeedRunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_seed_run_duration_seconds",
				Help:    "Seeding run execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		MigrationRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_migration_runs_total",
				Help: "Total schema migration invocations by change id and outcome",
			},
			[]string{"change_id", "method"},
		),
		CapabilityProbes: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_capability_probes_total",
				Help: "Total schema capability probes by table, column and answer",
			},
			[]string{"table", "column", "exists"},
		),
	}
}
