package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the voltcalc core. All methods
// are safe to call on a disabled (no-op) instance.
type Metrics struct {
	config MetricsConfig

	// Parameter store metrics
	paramReads  *prometheus.CounterVec
	paramWrites *prometheus.CounterVec

	// Connection resolver metrics
	resolutions       *prometheus.CounterVec
	resolverCacheHits prometheus.Counter

	// Session metrics
	sessionsCommitted  prometheus.Counter
	sessionsRolledBack prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "voltcalc"
	}

	m := &Metrics{
		config:   cfg,
		registry: prometheus.NewRegistry(),
	}

	m.paramReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "param_reads_total",
		Help:      "Total parameter store reads by parameter name.",
	}, []string{"name"})

	m.paramWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "param_writes_total",
		Help:      "Total parameter store writes by parameter name.",
	}, []string{"name"})

	m.resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_resolutions_total",
		Help:      "Total backend resolutions by selected backend.",
	}, []string{"backend"})

	m.resolverCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_resolution_cache_hits_total",
		Help:      "Total resolutions served from the process-wide cache.",
	})

	m.sessionsCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_committed_total",
		Help:      "Total database sessions that committed.",
	})

	m.sessionsRolledBack = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_rolled_back_total",
		Help:      "Total database sessions that rolled back.",
	})

	m.registry.MustRegister(
		m.paramReads,
		m.paramWrites,
		m.resolutions,
		m.resolverCacheHits,
		m.sessionsCommitted,
		m.sessionsRolledBack,
	)

	return m
}

// IncParamRead records a parameter store read.
func (m *Metrics) IncParamRead(name string) {
	if m == nil || m.paramReads == nil {
		return
	}
	m.paramReads.WithLabelValues(name).Inc()
}

// IncParamWrite records a parameter store write.
func (m *Metrics) IncParamWrite(name string) {
	if m == nil || m.paramWrites == nil {
		return
	}
	m.paramWrites.WithLabelValues(name).Inc()
}

// IncResolution records a completed backend resolution.
func (m *Metrics) IncResolution(backend string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(backend).Inc()
}

// IncResolverCacheHit records a resolution served from the cache.
func (m *Metrics) IncResolverCacheHit() {
	if m == nil || m.resolverCacheHits == nil {
		return
	}
	m.resolverCacheHits.Inc()
}

// IncSessionCommitted records a committed session.
func (m *Metrics) IncSessionCommitted() {
	if m == nil || m.sessionsCommitted == nil {
		return
	}
	m.sessionsCommitted.Inc()
}

// IncSessionRolledBack records a rolled back session.
func (m *Metrics) IncSessionRolledBack() {
	if m == nil || m.sessionsRolledBack == nil {
		return
	}
	m.sessionsRolledBack.Inc()
}

// ParamReads returns the read counter for a parameter name. Tests use this
// to assert how often the store was touched.
func (m *Metrics) ParamReads(name string) prometheus.Counter {
	if m == nil || m.paramReads == nil {
		return nil
	}
	return m.paramReads.WithLabelValues(name)
}

// Handler returns an HTTP handler exposing the collected metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
