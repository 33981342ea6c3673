package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// AI assist metrics
	AIRequestsTotal   *prometheus.CounterVec
	AIRequestDuration *prometheus.HistogramVec
	SummaryCache      *prometheus.CounterVec

	// Proposal lifecycle metrics
	DraftSaves  *prometheus.CounterVec
	Submissions prometheus.Counter
}

// NewMetrics creates the metrics on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderly_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tenderly_http_request_duration_seconds",
				Help:    "Duration of HTTP request processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		AIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderly_ai_requests_total",
				Help: "Total number of AI assist operations",
			},
			[]string{"operation", "provider", "outcome"},
		),

		AIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tenderly_ai_request_duration_seconds",
				Help:    "Duration of AI assist operations",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation", "provider"},
		),

		SummaryCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderly_summary_cache_total",
				Help: "Summary cache lookups by result",
			},
			[]string{"result"},
		),

		DraftSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenderly_draft_saves_total",
				Help: "Draft saves by whether the content changed",
			},
			[]string{"changed"},
		),

		Submissions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tenderly_submissions_total",
				Help: "Total number of successful proposal submissions",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveAI records one AI assist operation
func (m *Metrics) ObserveAI(operation, provider, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AIRequestsTotal.WithLabelValues(operation, provider, outcome).Inc()
	m.AIRequestDuration.WithLabelValues(operation, provider).Observe(d.Seconds())
}

// CacheLookup records a summary cache hit or miss
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SummaryCache.WithLabelValues(result).Inc()
}

// DraftSaved records a draft save
func (m *Metrics) DraftSaved(changed bool) {
	if m == nil {
		return
	}
	m.DraftSaves.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

// Submitted records a successful submission
func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.Submissions.Inc()
}
