// Package metrics exposes Prometheus instrumentation for the assistant. All
// recorder methods are nil-safe so callers never need to guard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Conversation exposes counters/histograms for dialogue handling.
type Conversation struct {
	turnsTotal        *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	completionLatency prometheus.Histogram
}

// NewConversation registers the conversation metrics on reg (the default
// registerer when nil).
func NewConversation(reg prometheus.Registerer) *Conversation {
	m := &Conversation{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookwise",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total turns handled, by routed intent",
		}, []string{"intent"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookwise",
			Subsystem: "booking",
			Name:      "persisted_total",
			Help:      "Booking persistence attempts by outcome",
		}, []string{"outcome"}),
		completionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookwise",
			Subsystem: "conversation",
			Name:      "completion_latency_seconds",
			Help:      "Latency of LLM completion calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingsTotal, m.completionLatency)
	return m
}

// TurnHandled counts one routed turn.
func (m *Conversation) TurnHandled(intent string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
}

// BookingPersisted counts one persistence attempt.
func (m *Conversation) BookingPersisted(ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// Timer measures one completion call.
type Timer struct {
	hist  prometheus.Histogram
	start time.Time
}

// CompletionTimer starts a latency measurement; call Observe when done.
func (m *Conversation) CompletionTimer() Timer {
	if m == nil {
		return Timer{}
	}
	return Timer{hist: m.completionLatency, start: time.Now()}
}

// Observe records the elapsed time. No-op for a zero Timer.
func (t Timer) Observe() {
	if t.hist == nil {
		return
	}
	t.hist.Observe(time.Since(t.start).Seconds())
}
