// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "company_finder"

// Outcome labels shared by the upstream and search collectors.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeInvalid     = "invalid"
	OutcomeCanceled    = "canceled"
)

var (
	// HTTPRequestsTotal counts handled requests by route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration measures request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts calls to the domain finder and profile APIs.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of calls to external company-data APIs",
		},
		[]string{"upstream", "outcome"},
	)

	// UpstreamRequestDuration measures upstream latency.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of calls to external company-data APIs",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		},
		[]string{"upstream"},
	)

	// SearchesTotal counts completed search workflows by outcome.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of company searches by outcome",
		},
		[]string{"outcome"},
	)

	// PersistenceFailuresTotal counts failed gateway operations.
	PersistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_failures_total",
			Help:      "Total number of failed persistence operations",
		},
		[]string{"operation"},
	)
)

// RecordHTTPRequest records one handled HTTP request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstream records the outcome and latency of one upstream call.
func RecordUpstream(upstream, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(upstream, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(upstream).Observe(duration.Seconds())
}

// RecordSearch records the outcome of a search workflow.
func RecordSearch(outcome string) {
	SearchesTotal.WithLabelValues(outcome).Inc()
}

// RecordPersistenceFailure records a failed gateway operation.
func RecordPersistenceFailure(operation string) {
	PersistenceFailuresTotal.WithLabelValues(operation).Inc()
}
