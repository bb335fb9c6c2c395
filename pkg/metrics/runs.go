package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics records metadata for engine runs (billing generation, schedule
// materialization, commission processing, reminder sweeps).
type RunMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	records  *prometheus.CounterVec
}

// NewRunMetrics registers the run metrics on the provided registerer.
func NewRunMetrics(reg prometheus.Registerer) *RunMetrics {
	if reg == nil {
		return &RunMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "run_duration_seconds",
		Help:    "Duration of engine runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"run"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "run_success",
		Help: "Successful engine runs.",
	}, []string{"run"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "run_failure",
		Help: "Failed engine runs.",
	}, []string{"run"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "run_records_total",
		Help: "Records produced by engine runs.",
	}, []string{"run"})
	reg.MustRegister(duration, success, failure, records)
	return &RunMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		records:  records,
	}
}

// ObserveDuration records the duration for the named run.
func (m *RunMetrics) ObserveDuration(run string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(run)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named run.
func (m *RunMetrics) IncSuccess(run string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(run)).Inc()
}

// IncFailure increments the failure counter for the named run.
func (m *RunMetrics) IncFailure(run string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(run)).Inc()
}

// AddRecords adds produced-record counts for the named run.
func (m *RunMetrics) AddRecords(run string, count int) {
	if m == nil || m.records == nil || count <= 0 {
		return
	}
	m.records.WithLabelValues(normalizeLabel(run)).Add(float64(count))
}

func normalizeLabel(run string) string {
	if run == "" {
		return "unknown"
	}
	return run
}
