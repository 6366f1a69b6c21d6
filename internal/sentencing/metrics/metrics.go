package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sentencing module.
type Metrics struct {
	// Computation outcomes by status and category
	ComputeOutcome *prometheus.CounterVec

	// Engine latency for a single computation
	ComputeLatency prometheus.Histogram

	// Cache lookups by result: "hit", "miss", "error"
	CacheLookups *prometheus.CounterVec

	// Batch sizes accepted
	BatchSize prometheus.Histogram

	// Provenance flags raised, by flag name
	Defaults *prometheus.CounterVec
}

// New registers the sentencing metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		ComputeOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentencer_computations_total",
			Help: "Total computations by status and crime category",
		}, []string{"status", "category"}),

		ComputeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentencer_compute_duration_seconds",
			Help:    "Duration of a single sentencing computation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentencer_cache_lookups_total",
			Help: "Outcome cache lookups by result",
		}, []string{"result"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentencer_batch_size",
			Help:    "Number of items per batch computation request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),

		Defaults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sentencer_defaults_applied_total",
			Help: "Defaults and clamps applied during computation, by kind",
		}, []string{"kind"}),
	}
}

// IncrementOutcome records a computation outcome.
func (m *Metrics) IncrementOutcome(status, category string) {
	if m != nil {
		m.ComputeOutcome.WithLabelValues(status, category).Inc()
	}
}

// ObserveComputeLatency records the engine duration.
func (m *Metrics) ObserveComputeLatency(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}

// IncrementCacheLookup records a cache lookup result.
func (m *Metrics) IncrementCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// ObserveBatchSize records the size of an accepted batch.
func (m *Metrics) ObserveBatchSize(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}

// IncrementDefault records one applied default or clamp.
func (m *Metrics) IncrementDefault(kind string) {
	if m != nil {
		m.Defaults.WithLabelValues(kind).Inc()
	}
}
