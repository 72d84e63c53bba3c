package command

import (
	"errors"
	"time"

	"github.com/courtflow/progression/aggregate"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the Prometheus collectors of a Dispatcher.
type Metrics struct {
	dispatched *prometheus.CounterVec
	events     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the dispatcher collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "progression",
			Subsystem: "command",
			Name:      "dispatched_total",
			Help:      "Number of dispatched commands by name and outcome.",
		}, []string{"command", "outcome"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "progression",
			Subsystem: "command",
			Name:      "events_total",
			Help:      "Number of events committed by command handlers and reactions.",
		}, []string{"event"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "progression",
			Subsystem: "command",
			Name:      "duration_seconds",
			Help:      "Duration of command handling.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}
	reg.MustRegister(m.dispatched, m.events, m.duration)
	return m
}

func (m *Metrics) observe(name string, start time.Time, eventNames []string, err error) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(name, outcome(err)).Inc()
	m.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	for _, e := range eventNames {
		m.events.WithLabelValues(e).Inc()
	}
}

func (m *Metrics) observeEvent(name string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(name).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnhandled):
		return "unhandled"
	case IsValidationError(err):
		return "invalid"
	case aggregate.IsConsistencyError(err):
		return "conflict"
	default:
		return "error"
	}
}
