package element

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures element metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "velement").
	Namespace string

	Subsystem   string
	ConstLabels prometheus.Labels

	// Buckets are the render duration histogram buckets.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures element metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the render duration buckets.
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

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "velement",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by elements. A nil
// *Metrics records nothing.
type Metrics struct {
	renders     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	transitions *prometheus.CounterVec
	warnings    *prometheus.CounterVec
}

// NewMetrics registers the element collectors:
//   - velement_renders_total: renders by tag
//   - velement_render_duration_seconds: render duration by tag
//   - velement_lifecycle_transitions_total: transitions by tag and state
//   - velement_property_warnings_total: store warnings by tag and kind
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of element renders",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Element render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag"}),

		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "lifecycle_transitions_total",
			Help:        "Total number of lifecycle transitions by target state",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "state"}),

		warnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "property_warnings_total",
			Help:        "Total number of recoverable property store warnings",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "kind"}),
	}
}

func (m *Metrics) renderTimer(tag string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.renders.WithLabelValues(tag).Inc()
		m.duration.WithLabelValues(tag).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) transition(tag, state string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(tag, state).Inc()
}

func (m *Metrics) warning(tag, kind string) {
	if m == nil {
		return
	}
	m.warnings.WithLabelValues(tag, kind).Inc()
}
