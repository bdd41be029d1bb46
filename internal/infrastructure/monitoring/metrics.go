package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Export outcomes recorded by RecordExport
const (
	ExportSuccess  = "success"
	ExportRejected = "rejected"
	ExportFailed   = "failed"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Export metrics
	Exports       *prometheus.CounterVec
	ExportBytes   prometheus.Histogram
	ExportFiles   prometheus.Histogram
	ExportLatency prometheus.Histogram

	// Project store metrics
	ProjectOps      *prometheus.CounterVec
	ProjectDuration *prometheus.HistogramVec

	// Registry metrics
	RegistryBlocks *prometheus.GaugeVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for the JSON stats endpoint
type Snapshot struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalErrors   int64   `json:"totalErrors"`
	Exports       int64   `json:"exports"`
	ExportErrors  int64   `json:"exportErrors"`
	TotalDuration float64 `json:"-"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagebuilder_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		Exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagebuilder_exports_total",
				Help: "Export requests by outcome",
			},
			[]string{"outcome"},
		),
		ExportBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_export_archive_bytes",
				Help:    "Size of produced export archives",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		ExportFiles: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_export_archive_files",
				Help:    "Number of files in produced export archives",
				Buckets: []float64{10, 15, 25, 50, 100, 250},
			},
		),
		ExportLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_export_duration_seconds",
				Help:    "Time spent building and packaging an export",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
		),

		ProjectOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pagebuilder_project_operations_total",
				Help: "Project store operations",
			},
			[]string{"op", "status"},
		),
		ProjectDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pagebuilder_project_operation_duration_seconds",
				Help:    "Project store operation duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"op"},
		),

		RegistryBlocks: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pagebuilder_registry_blocks",
				Help: "Registered catalog blocks by category",
			},
			[]string{"category"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "pagebuilder_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	if len(status) > 0 && status[0] >= '4' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordExport records one export attempt. bytes and files are ignored unless it succeeded.
func (m *Metrics) RecordExport(outcome string, duration time.Duration, bytes, files int) {
	m.Exports.WithLabelValues(outcome).Inc()
	m.ExportLatency.Observe(duration.Seconds())
	if outcome == ExportSuccess {
		m.ExportBytes.Observe(float64(bytes))
		m.ExportFiles.Observe(float64(files))
	}

	m.mu.Lock()
	m.snapshot.Exports++
	if outcome != ExportSuccess {
		m.snapshot.ExportErrors++
	}
	m.mu.Unlock()
}

// RecordProjectOp records a project store operation
func (m *Metrics) RecordProjectOp(op, status string, duration time.Duration) {
	m.ProjectOps.WithLabelValues(op, status).Inc()
	m.ProjectDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SetRegistryBlocks sets the block gauge for one category
func (m *Metrics) SetRegistryBlocks(category string, count int) {
	m.RegistryBlocks.WithLabelValues(category).Set(float64(count))
}

// GetSnapshot returns the running totals
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// AverageLatency returns the mean HTTP request duration
func (m *Metrics) AverageLatency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snapshot.TotalRequests == 0 {
		return 0
	}
	return time.Duration(m.snapshot.TotalDuration / float64(m.snapshot.TotalRequests) * float64(time.Second))
}

// UptimeDuration returns time since the collector was created
func (m *Metrics) UptimeDuration() time.Duration {
	return time.Since(m.startTime)
}
