// Package metrics provides Prometheus metrics for the filmcat catalog service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every catalog metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Catalog lifecycle
	catalogLoads       *prometheus.CounterVec
	catalogFallbacks   prometheus.Counter
	catalogLoadLatency *prometheus.HistogramVec
	datasetSize        prometheus.Gauge
	categoryCount      prometheus.Gauge

	// Interaction
	commands          *prometheus.CounterVec
	invalidSelections *prometheus.CounterVec
	viewSize          prometheus.Gauge
	queryLatency      prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "filmcat",
		subsystem:        "catalog",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.catalogLoads = auto.NewCounterVec(
		m.counterOpts("loads_total", "Catalog load attempts by source and outcome"),
		[]string{"source", "outcome"},
	)
	m.catalogFallbacks = auto.NewCounter(
		m.counterOpts("fallbacks_total", "Loads that had to fall back to the secondary source"),
	)
	m.catalogLoadLatency = auto.NewHistogramVec(
		m.histogramOpts("load_latency_milliseconds", "Latency of a single source fetch in milliseconds", m.histogramBuckets),
		[]string{"source"},
	)
	m.datasetSize = auto.NewGauge(m.gaugeOpts("dataset_size", "Number of films in the loaded dataset"))
	m.categoryCount = auto.NewGauge(m.gaugeOpts("category_count", "Number of distinct categories, excluding the all sentinel"))

	m.commands = auto.NewCounterVec(
		m.counterOpts("commands_total", "User commands handled by the controller"),
		[]string{"command"},
	)
	m.invalidSelections = auto.NewCounterVec(
		m.counterOpts("invalid_selections_total", "Selections coerced back to their default"),
		[]string{"kind"},
	)
	m.viewSize = auto.NewGauge(m.gaugeOpts("view_size", "Number of films in the current derived view"))
	m.queryLatency = auto.NewHistogram(
		m.histogramOpts("query_latency_milliseconds", "Time spent computing a derived view in milliseconds", m.histogramBuckets),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status code"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordCatalogLoad counts one fetch attempt against source.
func RecordCatalogLoad(source, outcome string, latencyMs float64) {
	globalManager.catalogLoads.WithLabelValues(source, outcome).Inc()
	globalManager.catalogLoadLatency.WithLabelValues(source).Observe(latencyMs)
}

// RecordCatalogFallback counts a load that used the fallback source.
func RecordCatalogFallback() {
	globalManager.catalogFallbacks.Inc()
}

// UpdateDatasetSize sets the dataset size gauge.
func UpdateDatasetSize(n int) {
	globalManager.datasetSize.Set(float64(n))
}

// UpdateCategoryCount sets the category gauge.
func UpdateCategoryCount(n int) {
	globalManager.categoryCount.Set(float64(n))
}

// RecordCommand counts a controller command.
func RecordCommand(command string) {
	globalManager.commands.WithLabelValues(command).Inc()
}

// RecordInvalidSelection counts a coerced category or sort key.
func RecordInvalidSelection(kind string) {
	globalManager.invalidSelections.WithLabelValues(kind).Inc()
}

// UpdateViewSize sets the derived view gauge.
func UpdateViewSize(n int) {
	globalManager.viewSize.Set(float64(n))
}

// RecordQueryLatency observes one pipeline run.
func RecordQueryLatency(latencyMs float64) {
	globalManager.queryLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
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
