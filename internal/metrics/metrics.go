// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package metrics provides Prometheus instrumentation for VenueScout:
// HTTP latency and throughput, upstream call volume, cache efficiency,
// rate-limit decisions, and circuit breaker state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks API endpoint latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venuescout_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RecommendRequestsTotal counts recommendation requests by outcome.
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"outcome"}, // ok, limited, invalid_input, rate_limited, error
	)

	// LaneSearchesTotal counts lane searches against the place provider.
	LaneSearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_lane_searches_total",
			Help: "Total number of lane searches issued",
		},
		[]string{"kind", "outcome"}, // kind: keyword, text; outcome: ok, cached, error
	)

	// DetailFetchesTotal counts place detail fetches.
	DetailFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_detail_fetches_total",
			Help: "Total number of place detail fetches",
		},
		[]string{"outcome"}, // ok, cached, error
	)

	// CacheOperationsTotal counts TTL cache reads by result.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_cache_operations_total",
			Help: "Total number of cache reads",
		},
		[]string{"kind", "result"}, // kind: search, details; result: hit, miss, error
	)

	// RateLimitDecisionsTotal counts admission decisions.
	RateLimitDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_ratelimit_decisions_total",
			Help: "Total number of rate-limit admission decisions",
		},
		[]string{"mode", "decision"}, // mode: guest, authenticated; decision: allow, deny, error
	)

	// CircuitBreakerState tracks breaker state per upstream (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "venuescout_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"upstream"},
	)

	// UpstreamErrorsTotal counts failed upstream calls by provider.
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuescout_upstream_errors_total",
			Help: "Total number of failed upstream provider calls",
		},
		[]string{"provider"}, // places, weather, copywriter
	)

	// ShortlistSize observes how many options each request returned.
	ShortlistSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "venuescout_shortlist_size",
			Help:    "Number of options returned in the shortlist",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)
