package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriber_messages_received_total",
			Help: "Total number of messages received from the transport (count)",
		},
		[]string{"channel"},
	)

	MessagesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriber_messages_processed_total",
			Help: "Total number of messages processed by the dispatcher (count)",
		},
		[]string{"schema", "status"},
	)

	MessageProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "subscriber_message_processing_duration_ms",
			Help:    "Dispatcher processing duration per message in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"schema"},
	)

	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriber_reconnects_total",
			Help: "Total number of transport reconnect attempts (count)",
		},
	)

	ConnectionState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscriber_connection_state",
			Help: "Transport connection state (0=disconnected, 1=subscribed) (state code)",
		},
	)

	LogoRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logo_requests_total",
			Help: "Total number of combined-logo service requests (count)",
		},
		[]string{"status"},
	)

	LogoRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "logo_request_duration_ms",
			Help:    "Duration of combined-logo service requests in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)

	LogoCacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logo_cache_hits_total",
			Help: "Total number of logo cache lookups (count)",
		},
		[]string{"result"},
	)

	LogoCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "logo_cache_size",
			Help: "Number of cached combined-logo references (count)",
		},
	)

	SyncCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calendar_sync_calls_total",
			Help: "Total number of calendar sync invocations (count)",
		},
		[]string{"urgency", "status"},
	)

	SyncDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calendar_sync_duration_ms",
			Help:    "Duration of calendar sync invocations in milliseconds",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"urgency"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)
)

func RegisterSubscriberMetrics() {
	prometheus.MustRegister(
		MessagesReceivedTotal,
		MessagesProcessedTotal,
		MessageProcessingDuration,
		ReconnectsTotal,
		ConnectionState,
	)
}

func RegisterLogoMetrics() {
	prometheus.MustRegister(
		LogoRequestsTotal,
		LogoRequestDuration,
		LogoCacheHitsTotal,
		LogoCacheSize,
	)
}

func RegisterSyncMetrics() {
	prometheus.MustRegister(
		SyncCallsTotal,
		SyncDuration,
	)
}

func RegisterCircuitBreakerMetrics() {
	prometheus.MustRegister(
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerFailures,
	)
}
