// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package places

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
)

// BreakerProvider wraps a Provider with a circuit breaker so a degraded
// place provider sheds load quickly instead of stacking up timed-out calls.
// A rejected call surfaces as an ordinary error and degrades to fewer
// candidates upstream.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[any]
}

// NewBreakerProvider wraps inner with a breaker that opens at a 60% failure
// rate over at least 10 calls and probes again after 30 seconds.
func NewBreakerProvider(inner Provider) *BreakerProvider {
	const name = "places-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerProvider{inner: inner, cb: cb}
}

// SearchNearby runs a keyword search through the breaker.
func (b *BreakerProvider) SearchNearby(ctx context.Context, q NearbyQuery) ([]Candidate, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.SearchNearby(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return res.([]Candidate), nil
}

// SearchText runs a free-text search through the breaker.
func (b *BreakerProvider) SearchText(ctx context.Context, q TextQuery) ([]Candidate, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.SearchText(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return res.([]Candidate), nil
}

// Details fetches one details record through the breaker.
func (b *BreakerProvider) Details(ctx context.Context, placeID string) (*DetailRecord, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.Details(ctx, placeID)
	})
	if err != nil {
		return nil, err
	}
	return res.(*DetailRecord), nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
