// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package cache provides a generic JSON-blob TTL cache over the shared
// key-value store.
//
// The cache is strictly best-effort: a read failure or backend outage is
// reported as a miss and the caller falls through to the live source, and
// writes swallow errors. Losing the cache degrades cost and latency, never
// correctness.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
)

// Cache stores JSON-serialized values in the shared KV store with a fixed
// TTL per cache instance.
type Cache struct {
	store kvstore.Store
	ttl   time.Duration

	// kind labels metrics: "search" or "details".
	kind string
}

// New creates a cache over store. Entries expire after ttl.
func New(store kvstore.Store, ttl time.Duration, kind string) *Cache {
	return &Cache{store: store, ttl: ttl, kind: kind}
}

// Get unmarshals the cached value for key into out. It returns false on a
// miss, an expired entry, a decode failure, or any backend error; the caller
// treats all of those identically and fetches from the live source.
func (c *Cache) Get(ctx context.Context, key string, out interface{}) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			metrics.CacheOperationsTotal.WithLabelValues(c.kind, "miss").Inc()
		} else {
			metrics.CacheOperationsTotal.WithLabelValues(c.kind, "error").Inc()
			logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(c.kind, "error").Inc()
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("cache entry undecodable, treating as miss")
		return false
	}

	metrics.CacheOperationsTotal.WithLabelValues(c.kind, "hit").Inc()
	return true
}

// Set stores value under key. Write failures are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("cache value unencodable, skipping write")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// SearchKey builds a stable key for a lane search: a hash over the lane
// kind, the search center rounded to ~100 m, the radius, and the normalized
// query text. Near-identical lane calls within the TTL window share a key.
func SearchKey(laneKind string, lat, lng float64, radiusMeters int, query string) string {
	payload := fmt.Sprintf("%s|%.3f|%.3f|%d|%s",
		laneKind,
		lat, lng,
		radiusMeters,
		normalizeQuery(query),
	)
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("search:%x", sum[:16])
}

// DetailsKey builds the key for a place details record. The timezone offset
// is part of the key because remaining-open-minutes depends on local time.
func DetailsKey(placeID string, tzOffsetSeconds int) string {
	return fmt.Sprintf("details:%s:%d", placeID, tzOffsetSeconds)
}

// normalizeQuery lowercases and collapses whitespace so trivially different
// query spellings hit the same cache entry.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
