package extenders

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/formic-dev/formic/pkg/form"
	"github.com/formic-dev/formic/pkg/path"
)

// MetricsConfig configures the Prometheus extender.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "formic").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for submission duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus extender.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "formic",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for form bindings.
type metrics struct {
	submissionsTotal  prometheus.Counter
	submitErrorsTotal prometheus.Counter
	submitDuration    prometheus.Histogram
}

// The metric set is registered once per process; later Metrics() calls
// reuse it regardless of options.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		submissionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submissions_total",
			Help:        "Total number of completed submission attempts",
			ConstLabels: config.ConstLabels,
		}),
		submitErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submit_errors_total",
			Help:        "Total number of submissions that ended in a validation or transport error",
			ConstLabels: config.ConstLabels,
		}),
		submitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "submit_duration_seconds",
			Help:        "Submission pipeline duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Metrics creates an extender that collects Prometheus metrics for a
// binding's submissions.
//
// Metrics collected:
//   - formic_submissions_total: Counter of completed submission attempts
//   - formic_submit_errors_total: Counter of failed submissions
//   - formic_submit_duration_seconds: Histogram of pipeline duration
//
// Example:
//
//	b := form.Bind(root,
//	    form.WithExtenders(extenders.Metrics(
//	        extenders.WithNamespace("myapp"),
//	    )),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Metrics(opts ...MetricsOption) form.Extender {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(ec form.ExtenderContext) any {
		inst := &metricsInstance{m: m}
		// The isSubmitting store brackets exactly one pipeline run per
		// true/false transition pair; timing it observes the whole
		// validate→warn→submit sequence.
		inst.unsub = ec.IsSubmitting.Subscribe(func(submitting bool) {
			if submitting && !inst.inFlight {
				inst.inFlight = true
				inst.start = time.Now()
				return
			}
			if !submitting && inst.inFlight {
				inst.inFlight = false
				m.submitDuration.Observe(time.Since(inst.start).Seconds())
				m.submissionsTotal.Inc()
			}
		})
		return inst
	}
}

type metricsInstance struct {
	m        *metrics
	unsub    func()
	start    time.Time
	inFlight bool
}

// OnSubmitError counts failed submissions, validation and transport
// alike.
func (i *metricsInstance) OnSubmitError(_ context.Context, _, _ path.Tree) {
	i.m.submitErrorsTotal.Inc()
}

// Destroy releases the store subscription.
func (i *metricsInstance) Destroy() {
	i.unsub()
}
