package node

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the node has been asked to do. A nil *Metrics records
// nothing.
type Metrics struct {
	Commands        *prometheus.CounterVec
	SoilMoisture    prometheus.Gauge
	PumpActivations prometheus.Counter
	PumpOnSeconds   prometheus.Counter
}

// NewMetrics creates the node metrics and registers them with reg when reg
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "plantnode",
				Name:      "commands_total",
				Help:      "Total number of AT commands handled",
			},
			[]string{"command", "status"},
		),
		SoilMoisture: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "plantnode",
				Name:      "soil_moisture_raw",
				Help:      "Last raw soil moisture sample",
			},
		),
		PumpActivations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "plantnode",
				Name:      "pump_activations_total",
				Help:      "Total number of timed pump runs",
			},
		),
		PumpOnSeconds: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "plantnode",
				Name:      "pump_on_seconds_total",
				Help:      "Total time the pump has been running",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Commands, m.SoilMoisture, m.PumpActivations, m.PumpOnSeconds)
	}
	return m
}

func (m *Metrics) command(name, status string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(name, status).Inc()
}

func (m *Metrics) moisture(raw int) {
	if m == nil {
		return
	}
	m.SoilMoisture.Set(float64(raw))
}

func (m *Metrics) pumped(d time.Duration) {
	if m == nil {
		return
	}
	m.PumpActivations.Inc()
	m.PumpOnSeconds.Add(d.Seconds())
}
