// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package kvstore

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store for tests. It honors TTL semantics
// identically to BadgerStore, including expiry preservation on increment.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// now allows tests to control time. Defaults to time.Now.
	now func() time.Time

	// fail forces every operation to return ErrUnavailable, for testing
	// store-outage behavior.
	fail bool
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock replaces the store's time source. Test helper.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetUnavailable toggles forced failure of all operations. Test helper.
func (s *MemoryStore) SetUnavailable(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Get returns the value for key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return nil, ErrUnavailable
	}

	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		delete(s.entries, key)
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value under key with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return ErrUnavailable
	}

	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// IncrWithExpiry atomically increments the counter at key, setting the
// expiry only when the increment creates the key.
func (s *MemoryStore) IncrWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail {
		return 0, ErrUnavailable
	}

	now := s.now()
	e, ok := s.entries[key]
	if !ok || e.expired(now) {
		fresh := memoryEntry{value: []byte("1")}
		if ttl > 0 {
			fresh.expiresAt = now.Add(ttl)
		}
		s.entries[key] = fresh
		return 1, nil
	}

	prev, _ := strconv.ParseInt(string(e.value), 10, 64)
	count := prev + 1
	e.value = []byte(strconv.FormatInt(count, 10))
	s.entries[key] = e
	return count, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
