package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks reconciliation runs. All methods are nil-safe.
type Metrics struct {
	Diagnostics *prometheus.CounterVec
	RunDuration prometheus.Histogram
	Sessions    prometheus.Counter
}

// New creates a new Metrics instance with all reconcile metrics registered.
func New() *Metrics {
	return &Metrics{
		Diagnostics: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tempo_reconcile_diagnostics_total",
			Help: "Sessions flagged during reconciliation by diagnostic code",
		}, []string{"code"}),

		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tempo_reconcile_run_duration_seconds",
			Help:    "Duration of one reconciliation run",
			Buckets: prometheus.DefBuckets,
		}),

		Sessions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tempo_reconcile_sessions_total",
			Help: "Sessions evaluated by the reconciliation engine",
		}),
	}
}

// IncDiagnostic counts one diagnostic.
func (m *Metrics) IncDiagnostic(code string) {
	if m != nil {
		m.Diagnostics.WithLabelValues(code).Inc()
	}
}

// ObserveRun records a finished run.
func (m *Metrics) ObserveRun(sessions int, d time.Duration) {
	if m != nil {
		m.Sessions.Add(float64(sessions))
		m.RunDuration.Observe(d.Seconds())
	}
}
