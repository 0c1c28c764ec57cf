package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connected_clients",
		Help: "Number of currently registered clients",
	})

	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Total messages routed by kind",
	}, []string{"kind"})

	RoutingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_routing_seconds",
		Help:    "Time spent routing one message by kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	DroppedMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_dropped_messages_total",
		Help: "Messages dropped because a client's outbound queue was full",
	})

	RejectedConnections = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_rejected_connections_total",
		Help: "Connections rejected because the server was at capacity",
	})
)

func init() {
	prometheus.MustRegister(ConnectedClients)
	prometheus.MustRegister(MessagesTotal)
	prometheus.MustRegister(RoutingDuration)
	prometheus.MustRegister(DroppedMessages)
	prometheus.MustRegister(RejectedConnections)
}
