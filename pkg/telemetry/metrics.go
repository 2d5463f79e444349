package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for wayfind search runs.
type Metrics struct {
	config MetricsConfig

	// Search run metrics
	searchesStarted   *prometheus.CounterVec
	searchesCompleted *prometheus.CounterVec
	searchDuration    *prometheus.HistogramVec

	// Node metrics
	nodesGenerated *prometheus.CounterVec
	nodesExpanded  *prometheus.CounterVec

	// Solution metrics
	solutionLength *prometheus.HistogramVec

	// Error metrics
	errorsByCode *prometheus.CounterVec

	// System metrics
	activeSearches prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		searchesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_started_total",
				Help:      "Total number of search runs started",
			},
			[]string{"ruleset", "merge_method"},
		),
		searchesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_completed_total",
				Help:      "Total number of search runs completed",
			},
			[]string{"outcome"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of search runs in seconds",
				Buckets:   buckets,
			},
			[]string{"outcome"},
		),

		nodesGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_generated_total",
				Help:      "Total number of search nodes generated",
			},
			[]string{"ruleset"},
		),
		nodesExpanded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_expanded_total",
				Help:      "Total number of search nodes expanded",
			},
			[]string{"ruleset"},
		),

		solutionLength: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solution_path_length",
				Help:      "Length in states of returned solution paths",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
			},
			[]string{"ruleset"},
		),

		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		activeSearches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_searches",
				Help:      "Current number of in-flight search runs",
			},
		),
	}

	registry.MustRegister(
		m.searchesStarted,
		m.searchesCompleted,
		m.searchDuration,
		m.nodesGenerated,
		m.nodesExpanded,
		m.solutionLength,
		m.errorsByCode,
		m.activeSearches,
	)

	return m, nil
}

// RecordSearchStarted increments the counter for started search runs.
func (m *Metrics) RecordSearchStarted(ruleset, mergeMethod string) {
	if m.searchesStarted == nil {
		return
	}
	m.searchesStarted.WithLabelValues(ruleset, mergeMethod).Inc()
	m.activeSearches.Inc()
}

// RecordSearchCompleted records a completed run with its outcome
// ("found", "exhausted", or "error") and duration.
func (m *Metrics) RecordSearchCompleted(outcome string, duration time.Duration) {
	if m.searchesCompleted == nil {
		return
	}
	m.searchesCompleted.WithLabelValues(outcome).Inc()
	m.searchDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.activeSearches.Dec()
}

// RecordNodes records the node statistics of a completed run.
func (m *Metrics) RecordNodes(ruleset string, generated, expanded int) {
	if m.nodesGenerated == nil {
		return
	}
	m.nodesGenerated.WithLabelValues(ruleset).Add(float64(generated))
	m.nodesExpanded.WithLabelValues(ruleset).Add(float64(expanded))
}

// RecordSolutionLength records the length of a returned solution path.
func (m *Metrics) RecordSolutionLength(ruleset string, length int) {
	if m.solutionLength == nil {
		return
	}
	m.solutionLength.WithLabelValues(ruleset).Observe(float64(length))
}

// RecordError records an error by code.
func (m *Metrics) RecordError(code string) {
	if m.errorsByCode == nil {
		return
	}
	m.errorsByCode.WithLabelValues(code).Inc()
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
