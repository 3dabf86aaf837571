package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics provides observability for member issuance and event admission.
// The recording methods are no-ops on a nil *Metrics.
type Metrics struct {
	MembersCreated    prometheus.Counter
	HandleClaims      *prometheus.CounterVec
	Registrations     *prometheus.CounterVec
	AttendanceChanges *prometheus.CounterVec
	TokenIssue        prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() so instances never collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MembersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admission_members_created_total",
			Help: "Total number of members created",
		}),
		HandleClaims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_handle_claims_total",
			Help: "Handle assignment attempts by outcome",
		}, []string{"outcome"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_registrations_total",
			Help: "Event registration attempts by outcome",
		}, []string{"outcome"}),
		AttendanceChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_attendance_transitions_total",
			Help: "Check-in, check-out and payment transitions by outcome",
		}, []string{"transition", "outcome"}),
		TokenIssue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "admission_token_issue_duration_seconds",
			Help:    "Duration of identity token issuance including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.MembersCreated, m.HandleClaims, m.Registrations, m.AttendanceChanges, m.TokenIssue)
	}
	return m
}

// IncrementMembersCreated records a committed member.
func (m *Metrics) IncrementMembersCreated() {
	if m == nil {
		return
	}
	m.MembersCreated.Inc()
}

// RecordHandleClaim records one SetHandle attempt.
func (m *Metrics) RecordHandleClaim(outcome string) {
	if m == nil {
		return
	}
	m.HandleClaims.WithLabelValues(outcome).Inc()
}

// RecordRegistration records one Register attempt.
func (m *Metrics) RecordRegistration(outcome string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// RecordTransition records a check_in, check_out or verify_payment attempt.
func (m *Metrics) RecordTransition(transition, outcome string) {
	if m == nil {
		return
	}
	m.AttendanceChanges.WithLabelValues(transition, outcome).Inc()
}

// ObserveTokenIssue records the duration of a token issuance.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTokenIssue(start time.Time) {
	if m == nil {
		return
	}
	m.TokenIssue.Observe(time.Since(start).Seconds())
}
