// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package kvstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/venuescout/venuescout/internal/logging"
)

// incrRetries bounds the optimistic-concurrency retry loop in IncrWithExpiry.
// Badger detects write conflicts at commit time, so the read-modify-write is
// retried until it commits cleanly. Contention on a single identity key is
// low (a handful of requests per minute), so the bound is generous.
const incrRetries = 16

// BadgerStore implements Store on an embedded BadgerDB instance.
type BadgerStore struct {
	db   *badger.DB
	done chan struct{}
}

// OpenBadger opens a Badger-backed store at path. An empty path selects an
// in-memory instance (no persistence across restarts). A background value-log
// GC loop runs every gcInterval until Close.
func OpenBadger(path string, gcInterval time.Duration) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	s := &BadgerStore{
		db:   db,
		done: make(chan struct{}),
	}

	if gcInterval > 0 && path != "" {
		go s.gcLoop(gcInterval)
	}

	return s, nil
}

// gcLoop runs Badger value-log garbage collection until Close.
func (s *BadgerStore) gcLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing to reclaim.
			if err := s.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				logging.Warn().Err(err).Msg("badger value log GC failed")
			}
		}
	}
}

// Get returns the value for key, or ErrNotFound. Badger expires entries
// lazily, so an expired key surfaces as ErrKeyNotFound.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Set stores value under key with the given TTL.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

// IncrWithExpiry atomically increments the counter at key. The whole
// read-modify-write executes in one Badger transaction: either it commits as
// a unit or it conflicts and is retried, so concurrent increments can never
// lose the expiry that the first writer of a fresh window establishes.
func (s *BadgerStore) IncrWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	var count int64

	for attempt := 0; attempt < incrRetries; attempt++ {
		err := s.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))

			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				// First increment of a fresh window: set the expiry here
				// and only here.
				count = 1
				e := badger.NewEntry([]byte(key), []byte("1"))
				if ttl > 0 {
					e = e.WithTTL(ttl)
				}
				return txn.SetEntry(e)

			case err != nil:
				return err

			default:
				raw, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				prev, err := strconv.ParseInt(string(raw), 10, 64)
				if err != nil {
					return err
				}
				count = prev + 1

				// Preserve the window's original expiry instant.
				e := badger.NewEntry([]byte(key), []byte(strconv.FormatInt(count, 10)))
				if exp := item.ExpiresAt(); exp > 0 {
					remaining := time.Until(time.Unix(int64(exp), 0)) //nolint:gosec // expiry fits in int64
					if remaining <= 0 {
						// Window elapsed between read and write; start fresh.
						count = 1
						e = badger.NewEntry([]byte(key), []byte("1"))
						remaining = ttl
					}
					if remaining > 0 {
						e = e.WithTTL(remaining)
					}
				}
				return txn.SetEntry(e)
			}
		})

		if err == nil {
			return count, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return 0, err
		}
	}

	return 0, ErrUnavailable
}

// Close stops the GC loop and closes the database.
func (s *BadgerStore) Close() error {
	close(s.done)
	return s.db.Close()
}
