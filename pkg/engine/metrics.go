package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine activity for Prometheus scraping. Attach with
// WithMetrics; methods on a nil *Metrics record nothing, so wiring is
// optional.
type Metrics struct {
	Submitted prometheus.Counter
	Replaced  prometheus.Counter
	Mined     prometheus.Counter
	Reverted  prometheus.Counter
	TimedOut  prometheus.Counter
	InFlight  prometheus.Gauge
}

// NewMetrics builds and registers the engine's collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txforge",
			Name:      "submitted_total",
			Help:      "Transactions broadcast, not counting replacements.",
		}),
		Replaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txforge",
			Name:      "replacements_total",
			Help:      "Same-nonce fee bumps broadcast.",
		}),
		Mined: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txforge",
			Name:      "mined_total",
			Help:      "Transactions confirmed with successful execution.",
		}),
		Reverted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txforge",
			Name:      "reverted_total",
			Help:      "Transactions mined whose execution failed.",
		}),
		TimedOut: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "txforge",
			Name:      "timed_out_total",
			Help:      "Transactions unconfirmed at their deadline.",
		}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "txforge",
			Name:      "in_flight",
			Help:      "Transactions currently monitored.",
		}),
	}
}

func (m *Metrics) submitted() {
	if m != nil {
		m.Submitted.Inc()
	}
}

func (m *Metrics) replaced() {
	if m != nil {
		m.Replaced.Inc()
	}
}

func (m *Metrics) mined() {
	if m != nil {
		m.Mined.Inc()
	}
}

func (m *Metrics) reverted() {
	if m != nil {
		m.Reverted.Inc()
	}
}

func (m *Metrics) timedOut() {
	if m != nil {
		m.TimedOut.Inc()
	}
}

func (m *Metrics) inFlightInc() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) inFlightDec() {
	if m != nil {
		m.InFlight.Dec()
	}
}
