// Package metrics exposes Prometheus metrics for the request pipeline.
//
// Every Manager owns its registry, so servers built in tests never
// collide on metric registration.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	runtime          bool
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	validationFailures  *prometheus.CounterVec
	dependencyFailures  *prometheus.CounterVec
	errorsByKind        *prometheus.CounterVec
	rateLimitHits       *prometheus.CounterVec
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

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithHistogramBuckets sets custom buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}

// NewManager creates a Manager backed by a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reqflow",
		subsystem:        "http",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route template.",
		Buckets:   m.histogramBuckets,
	}, []string{"method", "route"})

	m.validationFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_failures_total",
		Help:      "Field-level input validation failures by route and location.",
	}, []string{"route", "loc"})

	m.dependencyFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dependency_failures_total",
		Help:      "Requests short-circuited by a failing dependency.",
	}, []string{"route", "dependency"})

	m.errorsByKind = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors converted to responses, by mapping kind and status.",
	}, []string{"kind", "status"})

	m.rateLimitHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rate_limit_hits_total",
		Help:      "Requests rejected by the rate limiter.",
	}, []string{"route"})

	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// ObserveRequest records one finished request. route is the route
// template, not the concrete path, to keep label cardinality bounded.
func (m *Manager) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordValidationFailure counts one failing field location. Array
// indices are folded into "*" so clients cannot mint new series.
func (m *Manager) RecordValidationFailure(route, loc string) {
	if m == nil {
		return
	}
	m.validationFailures.WithLabelValues(route, locationLabel(loc)).Inc()
}

// locationLabel turns "body.items.3.price" into "body.items.*.price".
func locationLabel(loc string) string {
	segments := strings.Split(loc, ".")
	for i, seg := range segments {
		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = "*"
		}
	}
	return strings.Join(segments, ".")
}

// RecordDependencyFailure counts a request stopped by dependency.
func (m *Manager) RecordDependencyFailure(route, dependency string) {
	if m == nil {
		return
	}
	m.dependencyFailures.WithLabelValues(route, dependency).Inc()
}

// RecordError counts an error after it was mapped to a response.
func (m *Manager) RecordError(kind string, status int) {
	if m == nil {
		return
	}
	m.errorsByKind.WithLabelValues(kind, strconv.Itoa(status)).Inc()
}

// RecordRateLimitHit counts a request refused by the limiter.
func (m *Manager) RecordRateLimitHit(route string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(route).Inc()
}

// Registry returns the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
