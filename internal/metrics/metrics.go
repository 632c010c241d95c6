package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendCallDuration times calls to the remote collaborators.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dothub_backend_call_duration_seconds",
			Help:    "Backend call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"endpoint", "status"},
	)

	BackendCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dothub_backend_calls_total",
			Help: "Total number of backend calls by outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dothub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	ConversationTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dothub_conversation_turns_total",
			Help: "Total number of conversation turns by reply type",
		},
		[]string{"type"},
	)

	SignIns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dothub_sign_ins_total",
			Help: "Total number of PIN sign-in attempts",
		},
		[]string{"outcome"}, // outcome: success, rejected, error
	)
)

// RecordBackendCall records one collaborator call. status is the HTTP status
// code, or "error" when no response arrived.
func RecordBackendCall(endpoint, status string, duration time.Duration) {
	BackendCallDuration.WithLabelValues(endpoint, status).Observe(duration.Seconds())
	outcome := "success"
	if len(status) != 3 || status[0] != '2' {
		outcome = "error"
	}
	BackendCallTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordHTTPRequest records one served API request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IncrementTurn counts a conversation turn.
func IncrementTurn(kind string) {
	ConversationTurns.WithLabelValues(kind).Inc()
}

// IncrementSignIn counts a sign-in attempt.
func IncrementSignIn(outcome string) {
	SignIns.WithLabelValues(outcome).Inc()
}
