package urlgen

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures generator Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "skroutes").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for generation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics construction.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the Prometheus collectors for URL generation. Attach to a
// Generator with WithMetrics.
type Metrics struct {
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
}

// NewMetrics registers and returns the generator metrics. Register one
// Metrics per registry; registering twice on the same registry panics, as
// promauto does.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "skroutes",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		generationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "generations_total",
			Help:        "URL generations by address and outcome.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"address", "outcome"}),

		generationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "generation_duration_seconds",
			Help:        "Time spent generating one URL.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"address"}),

		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "validation_failures_total",
			Help:        "Validation failures by address and input kind.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"address", "kind"}),
	}
}

// record observes one completed generation.
func (g *Generator) record(address string, failed bool, d time.Duration) {
	if g.metrics == nil {
		return
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	g.metrics.generationsTotal.WithLabelValues(address, outcome).Inc()
	g.metrics.generationDuration.WithLabelValues(address).Observe(d.Seconds())
}

// countValidationFailure counts one validation failure before any failure
// handler runs.
func (g *Generator) countValidationFailure(address, kind string) {
	if g.metrics == nil {
		return
	}
	g.metrics.validationFailures.WithLabelValues(address, kind).Inc()
}
