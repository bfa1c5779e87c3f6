// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "suburbscope"

// Outcome labels for UpstreamRequestsTotal.
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeTransport   = "transport_error"
	OutcomeDecodeError = "decode_error"
)

// Reason labels for FallbackServedTotal.
const (
	ReasonEmptyResults = "empty_results"
	ReasonUpstreamFail = "upstream_error"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Upstream listings API metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Listings API calls by outcome",
	}, []string{"outcome"})

	UpstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Listings API call latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	// Pipeline metrics
	FallbackServedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "listings",
		Name:      "fallback_served_total",
		Help:      "Responses built from the fallback data set",
	}, []string{"reason"})

	ListingsNormalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "listings",
		Name:      "normalized_total",
		Help:      "Listings passed through normalization",
	})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the per-client rate limiter",
	})
)
