// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/kvstore"
)

func testCfg() config.RateLimitConfig {
	return config.RateLimitConfig{
		GuestPerMinute: 3,
		GuestPerDay:    40,
		AuthPerMinute:  8,
		AuthPerDay:     200,
	}
}

func TestGuestMinuteCap(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store.SetClock(clock)

	l := New(store, testCfg(), false)
	l.SetClock(clock)

	for i := 1; i <= 3; i++ {
		d, err := l.Admit(ctx, "guest:abc", ModeGuest)
		if err != nil {
			t.Fatalf("Admit %d failed: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("Admit %d denied, want allowed", i)
		}
	}

	// Fourth request inside the same minute window is denied with a positive
	// retry hint.
	now = now.Add(30 * time.Second)
	d, err := l.Admit(ctx, "guest:abc", ModeGuest)
	if err != nil {
		t.Fatalf("Admit 4 failed: %v", err)
	}
	if d.Allowed {
		t.Fatal("Admit 4 allowed, want denied")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %d, want positive", d.RetryAfter)
	}

	// A fresh minute window admits again.
	now = now.Add(61 * time.Second)
	d, err = l.Admit(ctx, "guest:abc", ModeGuest)
	if err != nil || !d.Allowed {
		t.Errorf("Admit after window = (%+v, %v), want allowed", d, err)
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	l := New(store, testCfg(), false)

	for i := 0; i < 3; i++ {
		if d, _ := l.Admit(ctx, "guest:a", ModeGuest); !d.Allowed {
			t.Fatalf("guest:a request %d denied", i+1)
		}
	}
	if d, _ := l.Admit(ctx, "guest:b", ModeGuest); !d.Allowed {
		t.Error("guest:b denied after guest:a exhausted its cap")
	}
}

func TestDayCap(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store.SetClock(clock)

	cfg := testCfg()
	cfg.GuestPerDay = 5
	l := New(store, cfg, false)
	l.SetClock(clock)

	// Burn the day quota across separate minute windows.
	for i := 0; i < 5; i++ {
		if d, err := l.Admit(ctx, "guest:x", ModeGuest); err != nil || !d.Allowed {
			t.Fatalf("request %d = (%+v, %v), want allowed", i+1, d, err)
		}
		now = now.Add(time.Minute + time.Second)
	}

	d, err := l.Admit(ctx, "guest:x", ModeGuest)
	if err != nil {
		t.Fatalf("Admit failed: %v", err)
	}
	if d.Allowed {
		t.Fatal("request over day cap allowed, want denied")
	}
	// RetryAfter points at the next UTC midnight.
	wantMax := int(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC).Sub(now).Seconds()) + 1
	if d.RetryAfter <= 0 || d.RetryAfter > wantMax {
		t.Errorf("RetryAfter = %d, want in (0, %d]", d.RetryAfter, wantMax)
	}

	// Past UTC midnight the day window resets.
	now = time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC)
	if d, err := l.Admit(ctx, "guest:x", ModeGuest); err != nil || !d.Allowed {
		t.Errorf("Admit after midnight = (%+v, %v), want allowed", d, err)
	}
}

func TestMinuteDenialDoesNotBurnDayQuota(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store.SetClock(clock)

	cfg := testCfg()
	cfg.GuestPerMinute = 1
	cfg.GuestPerDay = 2
	l := New(store, cfg, false)
	l.SetClock(clock)

	if d, _ := l.Admit(ctx, "g", ModeGuest); !d.Allowed {
		t.Fatal("first request denied")
	}
	// Minute-capped burst: denied before the day counter is touched.
	for i := 0; i < 10; i++ {
		if d, _ := l.Admit(ctx, "g", ModeGuest); d.Allowed {
			t.Fatal("burst request allowed past minute cap")
		}
	}

	// The day cap of 2 still has one slot left.
	now = now.Add(2 * time.Minute)
	if d, _ := l.Admit(ctx, "g", ModeGuest); !d.Allowed {
		t.Error("second day slot denied: minute-capped burst burned day quota")
	}
}

func TestStoreOutageFailClosed(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	store.SetUnavailable(true)

	l := New(store, testCfg(), false)
	_, err := l.Admit(ctx, "g", ModeGuest)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Admit during outage = %v, want ErrStoreUnavailable", err)
	}
}

func TestStoreOutageFailOpen(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	store.SetUnavailable(true)

	l := New(store, testCfg(), true)
	d, err := l.Admit(ctx, "g", ModeGuest)
	if err != nil {
		t.Fatalf("Admit during outage (fail-open) failed: %v", err)
	}
	if !d.Allowed {
		t.Error("fail-open limiter denied during outage, want allowed")
	}
}

func TestAuthenticatedCaps(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	l := New(store, testCfg(), false)

	for i := 1; i <= 8; i++ {
		if d, _ := l.Admit(ctx, "acct:1", ModeAuthenticated); !d.Allowed {
			t.Fatalf("auth request %d denied under cap", i)
		}
	}
	if d, _ := l.Admit(ctx, "acct:1", ModeAuthenticated); d.Allowed {
		t.Error("auth request 9 allowed past minute cap of 8")
	}
}
