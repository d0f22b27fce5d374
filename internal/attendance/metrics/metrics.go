package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for clock transitions and lifecycle
// event delivery. All methods are nil-safe so tests can pass nil.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	TransitionTime  prometheus.Histogram
	EventsDelivered *prometheus.CounterVec
	EventsDropped   *prometheus.CounterVec
	PublishLatency  prometheus.Histogram
	PublisherState  *prometheus.GaugeVec
}

// New creates a new Metrics instance with all attendance metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tempo_attendance_transitions_total",
			Help: "Clock actions by action and outcome (accepted or error code)",
		}, []string{"action", "outcome"}),

		TransitionTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tempo_attendance_transition_duration_seconds",
			Help:    "Duration of applying a clock action including the locked store round-trip",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),

		EventsDelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tempo_attendance_events_delivered_total",
			Help: "Lifecycle event deliveries by channel kind and result",
		}, []string{"channel_kind", "result"}), // channel_kind: session|employee

		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tempo_attendance_events_dropped_total",
			Help: "Lifecycle events dropped before delivery",
		}, []string{"reason"}), // reason: lane_full|closed

		PublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tempo_attendance_publish_duration_seconds",
			Help:    "Latency of a single channel publish",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		PublisherState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tempo_attendance_publisher_circuit_open",
			Help: "1 while the named publisher's circuit is open and the fallback serves",
		}, []string{"publisher"}),
	}
}

// IncTransition records an action outcome.
func (m *Metrics) IncTransition(action, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(action, outcome).Inc()
	}
}

// ObserveTransition records how long an action took end to end.
func (m *Metrics) ObserveTransition(d time.Duration) {
	if m != nil {
		m.TransitionTime.Observe(d.Seconds())
	}
}

// IncDelivered records one channel delivery attempt.
func (m *Metrics) IncDelivered(channelKind, result string) {
	if m != nil {
		m.EventsDelivered.WithLabelValues(channelKind, result).Inc()
	}
}

// IncDropped records an event that never reached a publisher.
func (m *Metrics) IncDropped(reason string) {
	if m != nil {
		m.EventsDropped.WithLabelValues(reason).Inc()
	}
}

// ObservePublish records a single publish latency.
func (m *Metrics) ObservePublish(d time.Duration) {
	if m != nil {
		m.PublishLatency.Observe(d.Seconds())
	}
}

// SetCircuitOpen flips the publisher circuit gauge.
func (m *Metrics) SetCircuitOpen(publisher string, open bool) {
	if m == nil {
		return
	}
	if open {
		m.PublisherState.WithLabelValues(publisher).Set(1)
	} else {
		m.PublisherState.WithLabelValues(publisher).Set(0)
	}
}
