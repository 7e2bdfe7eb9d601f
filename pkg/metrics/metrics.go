package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Upstream API metrics
	UpstreamCalls    *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	UpstreamFailures *prometheus.CounterVec

	// Analysis metrics
	AnalysisRequestsTotal  *prometheus.CounterVec
	BulkAnalysisDuration   prometheus.Histogram
	ReconciliationsTotal   *prometheus.CounterVec
	AnalysesCached         prometheus.Gauge

	// Ingest metrics
	IngestRowsTotal    *prometheus.CounterVec
	IngestRowsRejected *prometheus.CounterVec
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests use private
// registries to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_api_calls_total",
				Help: "Total number of calls to the campaign platform API",
			},
			[]string{"operation", "status"},
		),

		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_api_duration_seconds",
				Help:    "Campaign platform API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		UpstreamFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_api_failures_total",
				Help: "Total number of campaign platform API failures",
			},
			[]string{"operation", "error_type"},
		),

		AnalysisRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_requests_total",
				Help: "Total number of analysis requests",
			},
			[]string{"mode", "status"},
		),

		BulkAnalysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bulk_analysis_duration_seconds",
				Help:    "Bulk analysis duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),

		ReconciliationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_reconciliations_total",
				Help: "Total number of per-campaign reconciliation fetches",
			},
			[]string{"status"},
		),

		AnalysesCached: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "analyses_cached",
				Help: "Number of campaigns with a cached latest analysis",
			},
		),

		IngestRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_rows_total",
				Help: "Total number of bulk upload rows processed",
			},
			[]string{"status"},
		),

		IngestRowsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_rows_rejected_total",
				Help: "Total number of bulk upload rows rejected by validation",
			},
			[]string{"reason"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Upstream API call metrics
func (m *Metrics) RecordUpstreamCall(operation, status string, duration time.Duration) {
	m.UpstreamCalls.WithLabelValues(operation, status).Inc()
	m.UpstreamDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Upstream API failure metrics
func (m *Metrics) RecordUpstreamFailure(operation, errorType string) {
	m.UpstreamFailures.WithLabelValues(operation, errorType).Inc()
}

// Analysis request metrics; mode is "single" or "bulk".
func (m *Metrics) RecordAnalysisRequest(mode, status string) {
	m.AnalysisRequestsTotal.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) ObserveBulkAnalysis(duration time.Duration) {
	m.BulkAnalysisDuration.Observe(duration.Seconds())
}

// Reconciliation fetch metrics
func (m *Metrics) RecordReconciliation(status string) {
	m.ReconciliationsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) SetAnalysesCached(n int) {
	m.AnalysesCached.Set(float64(n))
}

// Ingest row metrics
func (m *Metrics) RecordIngestRows(status string, count int) {
	m.IngestRowsTotal.WithLabelValues(status).Add(float64(count))
}

func (m *Metrics) RecordIngestRejection(reason string) {
	m.IngestRowsRejected.WithLabelValues(reason).Inc()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
