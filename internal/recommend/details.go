// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/venuescout/venuescout/internal/cache"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
	"github.com/venuescout/venuescout/internal/places"
)

// detailsResolver fetches per-venue detail records under a fixed total-call
// budget. Detail calls are the expensive, quota-sensitive part of a request,
// so the budget binds before any fetch happens and nearby venues are
// preferred when it does.
type detailsResolver struct {
	provider     places.Provider
	detailsCache *cache.Cache
	concurrency  int
	budget       int
}

// resolve returns detail records for the budgeted, distance-prioritized
// subset of candidates. Candidates whose details report a permanently (or
// temporarily) closed business, or an explicitly-false open-now, are dropped
// here; unknown open state is retained for context-dependent filtering.
func (r *detailsResolver) resolve(ctx context.Context, cands []places.Candidate, city City, tzOffsetSeconds int) []*places.DetailRecord {
	// Distance sort before truncation biases the budget toward nearby
	// venues.
	sorted := make([]places.Candidate, len(cands))
	copy(sorted, cands)
	sort.SliceStable(sorted, func(i, j int) bool {
		di := haversineKm(city.Lat, city.Lng, sorted[i].Lat, sorted[i].Lng)
		dj := haversineKm(city.Lat, city.Lng, sorted[j].Lat, sorted[j].Lng)
		return di < dj
	})
	if len(sorted) > r.budget {
		sorted = sorted[:r.budget]
	}

	// Write-once result slots; no shared mutable state between workers.
	results := make([]*places.DetailRecord, len(sorted))

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, c := range sorted {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c places.Candidate) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = r.fetchOne(ctx, c, tzOffsetSeconds)
		}(i, c)
	}
	wg.Wait()

	out := make([]*places.DetailRecord, 0, len(results))
	for _, rec := range results {
		if rec == nil {
			continue
		}
		if rec.PermanentlyClosed() {
			continue
		}
		if rec.OpenNow != nil && !*rec.OpenNow {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// fetchOne resolves one candidate's details, cache-first. Failures degrade
// to nil: fewer candidates, never a fatal error.
func (r *detailsResolver) fetchOne(ctx context.Context, c places.Candidate, tzOffsetSeconds int) *places.DetailRecord {
	key := cache.DetailsKey(c.PlaceID, tzOffsetSeconds)

	var cached places.DetailRecord
	if r.detailsCache.Get(ctx, key, &cached) {
		metrics.DetailFetchesTotal.WithLabelValues("cached").Inc()
		return &cached
	}

	rec, err := r.provider.Details(ctx, c.PlaceID)
	if err != nil {
		metrics.DetailFetchesTotal.WithLabelValues("error").Inc()
		if !errors.Is(err, places.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("place_id", c.PlaceID).Msg("detail fetch degraded")
		}
		return nil
	}

	metrics.DetailFetchesTotal.WithLabelValues("ok").Inc()
	r.detailsCache.Set(ctx, key, rec)
	return rec
}
