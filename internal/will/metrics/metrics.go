package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the will lifecycle.
type Metrics struct {
	// Lifecycle operations by operation and outcome
	Operations *prometheus.CounterVec

	// Pipeline stage latencies (validate, generate, suggest, persist)
	StageLatency *prometheus.HistogramVec

	// Completeness score distribution of persisted wills
	Completeness prometheus.Histogram

	// Validation errors by issue code
	ValidationErrors *prometheus.CounterVec

	// Checksum mismatches found by integrity checks
	IntegrityFailures prometheus.Counter
}

// New creates a Metrics instance with every will metric registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legacyvault_will_operations_total",
			Help: "Will lifecycle operations by operation and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "error"

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legacyvault_will_stage_duration_seconds",
			Help:    "Duration of will pipeline stages",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"stage"}),

		Completeness: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "legacyvault_will_completeness_score",
			Help:    "Completeness score of generated wills",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),

		ValidationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legacyvault_will_validation_errors_total",
			Help: "Validation errors reported for generated wills by code",
		}, []string{"code"}),

		IntegrityFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "legacyvault_will_integrity_failures_total",
			Help: "Stored will versions whose checksum no longer matches",
		}),
	}
}

// IncrementOperation records one lifecycle call.
func (m *Metrics) IncrementOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveStage records the duration of one pipeline stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ObserveCompleteness records the score of a persisted will.
func (m *Metrics) ObserveCompleteness(score int) {
	if m != nil {
		m.Completeness.Observe(float64(score))
	}
}

// IncrementValidationError records one validation error.
func (m *Metrics) IncrementValidationError(code string) {
	if m != nil {
		m.ValidationErrors.WithLabelValues(code).Inc()
	}
}

// IncrementIntegrityFailure records a checksum mismatch.
func (m *Metrics) IncrementIntegrityFailure() {
	if m != nil {
		m.IntegrityFailures.Inc()
	}
}
