// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package kvstore provides the shared key-value store backing the TTL cache
// and the rate-limit counters.
//
// Two implementations are provided:
//   - BadgerStore: embedded BadgerDB, persistent or in-memory
//   - MemoryStore: plain map guarded by a mutex, for tests
//
// The store is the only shared mutable state between concurrent requests.
// IncrWithExpiry is the correctness-critical primitive: the increment and the
// conditional expiry set execute as one atomic unit, so a losing concurrent
// writer can never silently drop the window expiry.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the key does not exist or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrUnavailable indicates the backing store cannot serve requests.
var ErrUnavailable = errors.New("kvstore: store unavailable")

// Store is the minimal contract required by the cache and rate limiter:
// GET, SET-with-expiry, and atomic increment-with-conditional-expiry.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL. A non-positive TTL
	// stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// IncrWithExpiry atomically increments the counter at key and returns
	// the new value. The expiry is set to ttl only when the increment
	// creates the key (first hit of a fresh window); later increments
	// preserve the original expiry.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Close releases store resources.
	Close() error
}
