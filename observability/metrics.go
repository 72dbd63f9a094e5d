package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chat_hub"

// Metrics groups the prometheus collectors of the hub.
type Metrics struct {
	EventsRouted     *prometheus.CounterVec
	HandlerDuration  *prometheus.HistogramVec
	Deliveries       *prometheus.CounterVec
	DeliveryFailures prometheus.Counter
	StreamChunks     *prometheus.CounterVec
	PresenceDeltas   *prometheus.CounterVec
	Connections      prometheus.Gauge
	ProcessRSS       prometheus.Gauge
	ProcessCPU       prometheus.Gauge
}

// NewMetrics registers the collectors on reg. Tests pass a fresh prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsRouted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_routed_total",
			Help:      "Bus events routed, by type and outcome.",
		}, []string{"type", "outcome"}),
		HandlerDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_handler_duration_seconds",
			Help:      "Time spent in event handlers.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Payloads handed to the dispatcher, by primitive.",
		}, []string{"kind"}),
		DeliveryFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_failures_total",
			Help:      "Writes to a live connection that failed and were skipped.",
		}),
		StreamChunks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_chunks_total",
			Help:      "Stream chunks seen by the sequencer, by outcome.",
		}, []string{"outcome"}),
		PresenceDeltas: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "presence_deltas_total",
			Help:      "Presence deltas emitted, by event type.",
		}, []string{"event_type"}),
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_connections",
			Help:      "Live sessions attached to this instance.",
		}),
		ProcessRSS: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_rss_bytes",
			Help:      "Resident memory sampled by the heartbeat worker.",
		}),
		ProcessCPU: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "process_cpu_percent",
			Help:      "CPU usage sampled by the heartbeat worker.",
		}),
	}
}
