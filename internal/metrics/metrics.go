// Package metrics holds the Prometheus instruments of the front end.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway metrics
	GatewayCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Remote API call chains by HTTP method and final outcome",
		},
		[]string{"method", "outcome"},
	)

	GatewayCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_call_duration_seconds",
			Help:    "Duration of remote API call chains, refresh and replay included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	GatewayRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_token_refreshes_total",
			Help: "Access token refresh attempts by result",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gateway_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Search metrics
	AutocompleteLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autocomplete_lookups_total",
			Help: "Autocomplete suggestions by result (skipped, superseded, cached, dispatched, stale, error)",
		},
		[]string{"result"},
	)

	HistoryAppends = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_history_appends_total",
			Help: "Search history entries appended",
		},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Requests served by the web front end",
		},
		[]string{"method", "route", "status"},
	)
)
