package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Stream metrics
	StreamsConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stride_streams_connected",
			Help: "Number of currently connected event streams",
		},
	)

	StreamsOpenedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_streams_opened_total",
			Help: "Total number of event streams opened",
		},
	)

	// Broadcast metrics
	EventsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_events_delivered_total",
			Help: "Total number of change events delivered to subscribers by entity and action",
		},
		[]string{"entity", "action"},
	)

	EventDeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stride_event_delivery_failures_total",
			Help: "Total number of failed event deliveries that unregistered a subscriber",
		},
	)

	// API metrics
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stride_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Mutation metrics
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stride_mutations_total",
			Help: "Total number of persisted mutations by entity and action",
		},
		[]string{"entity", "action"},
	)
)

func init() {
	prometheus.MustRegister(
		StreamsConnected,
		StreamsOpenedTotal,
		EventsDelivered,
		EventDeliveryFailures,
		APIRequestsTotal,
		APIRequestDuration,
		MutationsTotal,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}
