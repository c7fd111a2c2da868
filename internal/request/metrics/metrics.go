package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the request workflow module.
type Metrics struct {
	// Transitions by target status and outcome ("ok", "conflict", "invalid", "error")
	Transitions *prometheus.CounterVec

	// Decision operation latency by operation name
	DecisionLatency *prometheus.HistogramVec

	// Best-effort side effects that were lost
	AuditDropped   prometheus.Counter
	NotifyFailures prometheus.Counter

	// Timeline aggregation latency including the three-way fan-out
	TimelineLatency prometheus.Histogram
}

// New creates a Metrics instance with all request workflow metrics registered.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "irdesk_request_transitions_total",
			Help: "Total request status transitions by target status and outcome",
		}, []string{"to_status", "outcome"}),

		DecisionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "irdesk_request_decision_duration_seconds",
			Help:    "Duration of decision workflow operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),

		AuditDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "irdesk_request_audit_dropped_total",
			Help: "Audit entries lost to a store or publish failure",
		}),

		NotifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "irdesk_request_notify_failures_total",
			Help: "Notification dispatches that failed after a committed transition",
		}),

		TimelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "irdesk_request_timeline_duration_seconds",
			Help:    "Duration of timeline aggregation including source fan-out",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// CountTransition records one transition attempt outcome.
func (m *Metrics) CountTransition(toStatus, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(toStatus, outcome).Inc()
	}
}

// ObserveDecision records the duration of a decision operation.
func (m *Metrics) ObserveDecision(operation string, d time.Duration) {
	if m != nil {
		m.DecisionLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// CountAuditDropped records one lost audit entry.
func (m *Metrics) CountAuditDropped() {
	if m != nil {
		m.AuditDropped.Inc()
	}
}

// CountNotifyFailure records one failed notification dispatch.
func (m *Metrics) CountNotifyFailure() {
	if m != nil {
		m.NotifyFailures.Inc()
	}
}

// ObserveTimeline records the duration of one timeline aggregation.
func (m *Metrics) ObserveTimeline(d time.Duration) {
	if m != nil {
		m.TimelineLatency.Observe(d.Seconds())
	}
}
