package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for dispatched actions
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
)

// Metrics holds the Prometheus collectors for the flow machine.
// A nil *Metrics records nothing.
type Metrics struct {
	actions   *prometheus.CounterVec
	courses   prometheus.Gauge
	sessions  prometheus.Gauge
	responses prometheus.Gauge
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classpulse",
			Name:      "actions_total",
			Help:      "Dispatched actions by type and outcome.",
		}, []string{"action", "outcome"}),
		courses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "classpulse",
			Name:      "courses",
			Help:      "Courses currently held in memory.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "classpulse",
			Name:      "sessions",
			Help:      "Sessions across all courses.",
		}),
		responses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "classpulse",
			Name:      "responses",
			Help:      "Responses across all sessions.",
		}),
	}
}

// ObserveAction counts one dispatch
func (m *Metrics) ObserveAction(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

// SetCounts updates the store size gauges
func (m *Metrics) SetCounts(courses, sessions, responses int) {
	if m == nil {
		return
	}
	m.courses.Set(float64(courses))
	m.sessions.Set(float64(sessions))
	m.responses.Set(float64(responses))
}
