package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mqttdesk"

// Metrics are the counters an agent keeps about traffic on its session.
type Metrics struct {
	registry       *prometheus.Registry
	Published      *prometheus.CounterVec
	Dropped        *prometheus.CounterVec
	FramesReceived prometheus.Counter
	AgentState     prometheus.Gauge
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_total",
			Help:      "Messages handed to the bus, by channel",
		}, []string{"channel"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_total",
			Help:      "Messages or events discarded, by reason",
		}, []string{"reason"}),
		FramesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_received_total",
			Help:      "Screen frames accepted into the latest-frame buffer",
		}),
		AgentState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "agent_state",
			Help:      "Lifecycle state of the agent (0 disconnected, 1 connecting, 2 connected, 3 tearing down, 4 failed)",
		}),
	}
	r.MustRegister(m.Published, m.Dropped, m.FramesReceived, m.AgentState)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
