package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsPublished counts outbox envelopes relayed to the bus, by topic.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rally_events_published_total",
			Help: "Events published to the bus by the outbox relay.",
		},
		[]string{"topic"},
	)

	// EventsConsumed counts inbound fact events applied by consumers.
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rally_events_consumed_total",
			Help: "Inbound events consumed and applied, by topic.",
		},
		[]string{"topic"},
	)

	// CampaignsAutoClosed counts campaigns ended by the deadline sweep.
	CampaignsAutoClosed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rally_campaigns_auto_closed_total",
			Help: "Campaigns closed by the auto-close sweep.",
		},
	)

	// JoinDuration tracks admission latency, labeled success or failure.
	JoinDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rally_join_duration_seconds",
			Help:    "Duration of campaign join requests in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"status"},
	)
)

func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

func RecordEventConsumed(topic string) {
	EventsConsumed.WithLabelValues(topic).Inc()
}

func RecordJoinDuration(status string, seconds float64) {
	JoinDuration.WithLabelValues(status).Observe(seconds)
}
