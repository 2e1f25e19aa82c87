// Package metrics exposes Prometheus counters and histograms for the placement portal.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every collector of the service. A nil *Manager records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry
	goCollectors     bool

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	applicationsCreated  prometheus.Counter
	applicationsRejected *prometheus.CounterVec
	statusChanges        *prometheus.CounterVec
	profileUpdates       *prometheus.CounterVec
	eventsPublished      *prometheus.CounterVec
	blacklistSwept       prometheus.Counter
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency histograms.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry registers collectors on registry instead of a fresh one.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// WithGoCollectors adds the Go runtime and process collectors.
func WithGoCollectors() Option {
	return func(m *Manager) {
		m.goCollectors = true
	}
}

// NewManager creates a Manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "placement",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	if m.goCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.applicationsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "applications",
		Name:      "created_total",
		Help:      "Applications accepted after eligibility and duplicate checks",
	})

	m.applicationsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "applications",
		Name:      "rejected_total",
		Help:      "Application attempts refused, by reason",
	}, []string{"reason"})

	m.statusChanges = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "applications",
		Name:      "status_changes_total",
		Help:      "Application status transitions by new status",
	}, []string{"status"})

	m.profileUpdates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "profiles",
		Name:      "updates_total",
		Help:      "Profile updates, split by whether an audit entry was written",
	}, []string{"audited"})

	m.eventsPublished = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events handed to the broker, by type and outcome",
	}, []string{"type", "outcome"})

	m.blacklistSwept = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "auth",
		Name:      "blacklist_swept_total",
		Help:      "Expired token ids removed from the in-memory blacklist",
	})
}

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest counts one request and observes its latency.
func (m *Manager) RecordHTTPRequest(route, method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordApplicationCreated counts a stored application.
func (m *Manager) RecordApplicationCreated() {
	if m == nil {
		return
	}
	m.applicationsCreated.Inc()
}

// RecordApplicationRejected counts a refused application attempt.
func (m *Manager) RecordApplicationRejected(reason string) {
	if m == nil {
		return
	}
	m.applicationsRejected.WithLabelValues(reason).Inc()
}

// RecordStatusChange counts a status update to status.
func (m *Manager) RecordStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}

// RecordProfileUpdate counts a saved profile edit.
func (m *Manager) RecordProfileUpdate(audited bool) {
	if m == nil {
		return
	}
	m.profileUpdates.WithLabelValues(strconv.FormatBool(audited)).Inc()
}

// RecordEventPublished counts a publish attempt of eventType.
func (m *Manager) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// RecordBlacklistSwept adds n removed blacklist entries.
func (m *Manager) RecordBlacklistSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.blacklistSwept.Add(float64(n))
}
