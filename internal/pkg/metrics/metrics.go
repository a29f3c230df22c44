package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Side effect kinds used as the "kind" label
const (
	KindEmail     = "email"
	KindBroadcast = "broadcast"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	VisitorsRegistered   prometheus.Counter
	VisitorTransitions   *prometheus.CounterVec
	SideEffectFailures   *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
	StreamSubscribers    prometheus.Gauge
	VisitorsByStatus     *prometheus.GaugeVec
}

// New creates and registers all metrics on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VisitorsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "vms_visitors_registered_total",
			Help: "Total number of visitors registered",
		}),
		VisitorTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vms_visitor_transitions_total",
			Help: "Total number of applied visitor status transitions by target status",
		}, []string{"status"}),
		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vms_side_effect_failures_total",
			Help: "Background notification and broadcast failures",
		}, []string{"kind"}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "vms_notifications_dropped_total",
			Help: "Side effects dropped because the dispatcher queue was full",
		}),
		StreamSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "vms_stream_subscribers",
			Help: "Currently connected visitor stream observers",
		}),
		VisitorsByStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vms_visitors",
			Help: "Stored visitors by workflow status, refreshed periodically",
		}, []string{"status"}),
	}
}

// NewNop returns metrics registered on a private registry, for tests and tools
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
