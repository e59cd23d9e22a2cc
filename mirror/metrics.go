package mirror

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the Listener.
type Metrics struct {
	// Applied events by contract and event name
	Events *prometheus.CounterVec

	// Events without a matching draft by kind
	Unmatched *prometheus.CounterVec

	// Height of the last processed block
	Height prometheus.Gauge
}

// NewMetrics creates Metrics registered in the given registerer. Nil
// registerer leaves metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tunichain_mirror_events_total",
			Help: "Total ledger events applied to the mirror by contract and name",
		}, []string{"contract", "event"}),

		Unmatched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tunichain_mirror_unmatched_events_total",
			Help: "Total ledger events which have no draft in the mirror",
		}, []string{"kind"}),

		Height: f.NewGauge(prometheus.GaugeOpts{
			Name: "tunichain_mirror_processed_height",
			Help: "Height of the last block processed by the mirror",
		}),
	}
}

// IncrementEvent records an applied event.
func (m *Metrics) IncrementEvent(contract, event string) {
	if m != nil {
		m.Events.WithLabelValues(contract, event).Inc()
	}
}

// IncrementUnmatched records an event without draft.
func (m *Metrics) IncrementUnmatched(kind Kind) {
	if m != nil {
		m.Unmatched.WithLabelValues(string(kind)).Inc()
	}
}

// SetHeight records the last processed block.
func (m *Metrics) SetHeight(h uint32) {
	if m != nil {
		m.Height.Set(float64(h))
	}
}
