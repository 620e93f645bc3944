// Package metrics provides Prometheus metrics for the fleetboard dashboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the fleetboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Pipeline Metrics - CSV ingestion and table operations
	rowsLoaded         *prometheus.CounterVec
	loadFailures       *prometheus.CounterVec
	mergesPerformed    prometheus.Counter
	mergeErrors        prometheus.Counter
	aggregationLatency *prometheus.HistogramVec

	// Dataset Gauges - Current snapshot of the loaded data
	datasetRows  *prometheus.GaugeVec
	totalDrivers prometheus.Gauge
	totalJobs    prometheus.Gauge
	totalMiles   prometheus.Gauge

	// Cache Metrics - Derived-view memoization
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	cacheSize   prometheus.Gauge

	// Integration Metrics - Outbound API client calls
	clientRequests        *prometheus.CounterVec
	clientRequestDuration *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fleetboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Pipeline Metrics - CSV ingestion and table operations
	m.rowsLoaded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rows_loaded_total",
			Help:      "Total number of CSV rows loaded, by source",
		},
		[]string{"source"},
	)

	m.loadFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "load_failures_total",
			Help:      "Total number of CSV load failures, by source and reason",
		},
		[]string{"source", "reason"},
	)

	m.mergesPerformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "merges_total",
		Help:      "Total number of table merges performed",
	})

	m.mergeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "merge_errors_total",
		Help:      "Total number of failed table merges (missing join key)",
	})

	m.aggregationLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "aggregation_latency_milliseconds",
			Help:      "Latency of derived-view computation in milliseconds, by view",
			Buckets:   m.histogramBuckets,
		},
		[]string{"view"},
	)

	// Dataset Gauges - Current snapshot of the loaded data
	m.datasetRows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_rows",
			Help:      "Current number of rows held per data source",
		},
		[]string{"source"},
	)

	m.totalDrivers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_drivers",
		Help:      "Distinct drivers in the current combined analysis",
	})

	m.totalJobs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_jobs",
		Help:      "Total jobs across all drivers in the current combined analysis",
	})

	m.totalMiles = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_miles",
		Help:      "Total miles across all drivers in the current combined analysis",
	})

	// Cache Metrics - Derived-view memoization
	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Total number of derived-view cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Total number of derived-view cache misses (fresh computations)",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_size",
		Help:      "Current number of entries in the derived-view cache",
	})

	// Integration Metrics - Outbound API client calls
	m.clientRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "client_requests_total",
			Help:      "Outbound API requests by service, operation and status",
		},
		[]string{"service", "operation", "status"},
	)

	m.clientRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "client_request_duration_milliseconds",
			Help:      "Outbound API request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"service", "operation"},
	)

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Errors by endpoint, method and type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordRowsLoaded adds to the rows loaded counter for a source.
func RecordRowsLoaded(source string, rows int) {
	globalManager.rowsLoaded.WithLabelValues(source).Add(float64(rows))
}

// RecordLoadFailure increments the load failure counter for a source.
func RecordLoadFailure(source, reason string) {
	globalManager.loadFailures.WithLabelValues(source, reason).Inc()
}

// RecordMerge increments the merges performed counter.
func RecordMerge() {
	globalManager.mergesPerformed.Inc()
}

// RecordMergeError increments the merge errors counter.
func RecordMergeError() {
	globalManager.mergeErrors.Inc()
}

// RecordAggregationLatency records derived-view computation latency in milliseconds.
func RecordAggregationLatency(view string, latencyMs float64) {
	globalManager.aggregationLatency.WithLabelValues(view).Observe(latencyMs)
}

// UpdateDatasetRows sets the current row count for a source.
func UpdateDatasetRows(source string, rows int) {
	globalManager.datasetRows.WithLabelValues(source).Set(float64(rows))
}

// UpdateTotalDrivers sets the distinct driver count.
func UpdateTotalDrivers(count int) {
	globalManager.totalDrivers.Set(float64(count))
}

// UpdateTotalJobs sets the total job count.
func UpdateTotalJobs(count int) {
	globalManager.totalJobs.Set(float64(count))
}

// UpdateTotalMiles sets the total miles figure.
func UpdateTotalMiles(miles float64) {
	globalManager.totalMiles.Set(miles)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheSize sets the current cache entry count.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// RecordClientRequest records an outbound API request.
func RecordClientRequest(service, operation, status string) {
	globalManager.clientRequests.WithLabelValues(service, operation, status).Inc()
}

// RecordClientRequestDuration records outbound API request duration in milliseconds.
func RecordClientRequestDuration(service, operation string, durationMs float64) {
	globalManager.clientRequestDuration.WithLabelValues(service, operation).Observe(durationMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint, method and type.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
