// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package ratelimit implements per-identity admission control on top of the
// shared counter store.
//
// Every identity is tracked in two windows: a rolling minute window and a
// UTC-day window. Both counters are incremented with the store's atomic
// increment-with-conditional-expiry primitive, so the window expiry can never
// be dropped by a losing concurrent writer.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
)

// Mode selects the cap profile for an identity.
type Mode string

const (
	// ModeGuest applies the stricter caps for anonymous identities.
	ModeGuest Mode = "guest"
	// ModeAuthenticated applies the looser caps for account identities.
	ModeAuthenticated Mode = "authenticated"
)

// ErrStoreUnavailable indicates the counter store could not be reached.
// In production deployments this is surfaced as a configuration error; in
// development the limiter fails open instead.
var ErrStoreUnavailable = errors.New("ratelimit: counter store unavailable")

// Decision is the outcome of an admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool

	// RetryAfter is the suggested wait in seconds when Allowed is false.
	// Always positive on a denial.
	RetryAfter int
}

// Limiter enforces per-identity request caps.
type Limiter struct {
	store kvstore.Store
	cfg   config.RateLimitConfig

	// failOpen allows all traffic when the store is down (development).
	failOpen bool

	// now allows tests to control time.
	now func() time.Time
}

// New creates a Limiter over store. When failOpen is true (development
// deployments) a store outage admits all traffic; otherwise the outage is
// returned as ErrStoreUnavailable.
func New(store kvstore.Store, cfg config.RateLimitConfig, failOpen bool) *Limiter {
	return &Limiter{
		store:    store,
		cfg:      cfg,
		failOpen: failOpen,
		now:      time.Now,
	}
}

// SetClock replaces the limiter's time source. Test helper.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}

// Admit checks and consumes one request slot for the identity. The minute
// counter is incremented first; the day counter is only consumed once the
// minute window admits, so a minute-limited burst does not burn day quota.
func (l *Limiter) Admit(ctx context.Context, identityKey string, mode Mode) (Decision, error) {
	minuteCap, dayCap := l.caps(mode)
	now := l.now().UTC()

	minuteKey := fmt.Sprintf("rl:%s:m:%s", mode, identityKey)
	minuteCount, err := l.store.IncrWithExpiry(ctx, minuteKey, time.Minute)
	if err != nil {
		return l.storeFailure(ctx, mode, err)
	}
	if minuteCount > int64(minuteCap) {
		metrics.RateLimitDecisionsTotal.WithLabelValues(string(mode), "deny").Inc()
		return Decision{Allowed: false, RetryAfter: 60}, nil
	}

	// Day window keyed by UTC date so the boundary is UTC midnight.
	dayKey := fmt.Sprintf("rl:%s:d:%s:%s", mode, identityKey, now.Format("2006-01-02"))
	dayCount, err := l.store.IncrWithExpiry(ctx, dayKey, untilUTCMidnight(now))
	if err != nil {
		return l.storeFailure(ctx, mode, err)
	}
	if dayCount > int64(dayCap) {
		metrics.RateLimitDecisionsTotal.WithLabelValues(string(mode), "deny").Inc()
		return Decision{Allowed: false, RetryAfter: int(untilUTCMidnight(now).Seconds()) + 1}, nil
	}

	metrics.RateLimitDecisionsTotal.WithLabelValues(string(mode), "allow").Inc()
	return Decision{Allowed: true}, nil
}

// storeFailure applies the fail-open/fail-closed policy for store outages.
func (l *Limiter) storeFailure(ctx context.Context, mode Mode, err error) (Decision, error) {
	metrics.RateLimitDecisionsTotal.WithLabelValues(string(mode), "error").Inc()
	if l.failOpen {
		logging.Ctx(ctx).Warn().Err(err).Msg("counter store unavailable, admitting request (development mode)")
		return Decision{Allowed: true}, nil
	}
	return Decision{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// caps returns (perMinute, perDay) for the mode.
func (l *Limiter) caps(mode Mode) (int, int) {
	if mode == ModeAuthenticated {
		return l.cfg.AuthPerMinute, l.cfg.AuthPerDay
	}
	return l.cfg.GuestPerMinute, l.cfg.GuestPerDay
}

// untilUTCMidnight returns the duration from now to the next UTC midnight.
func untilUTCMidnight(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(now)
}
