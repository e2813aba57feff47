// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"context"
	"sync"

	"github.com/venuescout/venuescout/internal/cache"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
	"github.com/venuescout/venuescout/internal/places"
)

// searchRadiusMeters is the provider search radius. Slightly under the
// relaxed profile's 14 km cap so lanes don't pay for candidates that can
// never pass filtering.
const searchRadiusMeters = 12000

// laneKind distinguishes the two query families.
type laneKind string

const (
	laneKeyword laneKind = "keyword"
	laneText    laneKind = "text"
)

// lane is one concurrent search query against the place provider.
type lane struct {
	kind  laneKind
	query string
}

// buildLanes assembles the lane battery for one vibe: a keyword lane per
// allowed category (plus vegetarian-qualified variants for food categories
// when requested, plus the generic vibe hint), and the vibe's free-text
// semantic lanes.
func buildLanes(vibe Vibe, vegFriendly bool) []lane {
	var lanes []lane

	for _, cat := range vibeCategories[vibe] {
		kw := categoryKeywords[cat]
		lanes = append(lanes, lane{kind: laneKeyword, query: kw})
		if vegFriendly && IsFoodCategory(cat) {
			lanes = append(lanes, lane{kind: laneKeyword, query: "vegetarian " + kw})
		}
	}
	if hint, ok := vibeHints[vibe]; ok {
		lanes = append(lanes, lane{kind: laneKeyword, query: hint})
	}

	for _, q := range vibeTextLanes[vibe] {
		lanes = append(lanes, lane{kind: laneText, query: q})
	}

	return lanes
}

// laneRetriever fans out diversified searches and merges candidates.
type laneRetriever struct {
	provider    places.Provider
	searchCache *cache.Cache
	concurrency int

	// fallbackTarget stops the fallback-vibe battery early once enough
	// distinct candidates have been gathered.
	fallbackTarget int
}

// candidateSet accumulates deduplicated candidates across lanes. Dedupe is
// by provider identifier; completion order of lanes is irrelevant because
// ranking happens later.
type candidateSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	list []places.Candidate

	// fallback holds identifiers first surfaced by a fallback-vibe battery.
	// The primary battery runs to completion first, so any venue the primary
	// lanes also find is never tagged.
	fallback map[string]struct{}
}

func newCandidateSet() *candidateSet {
	return &candidateSet{
		seen:     make(map[string]struct{}),
		fallback: make(map[string]struct{}),
	}
}

func (s *candidateSet) add(cands []places.Candidate, fromFallback bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cands {
		if _, dup := s.seen[c.PlaceID]; dup {
			continue
		}
		s.seen[c.PlaceID] = struct{}{}
		if fromFallback {
			s.fallback[c.PlaceID] = struct{}{}
		}
		s.list = append(s.list, c)
	}
}

func (s *candidateSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// retrieve runs the full candidate retrieval for a request: the primary
// vibe's battery, then up to two fallback-vibe batteries purely for swap
// supply, stopping early once fallbackTarget candidates are gathered.
// The returned set holds the identifiers of candidates only the fallback
// batteries surfaced; those restock the swap pool but are never eligible
// for the primary shortlist.
func (r *laneRetriever) retrieve(ctx context.Context, city City, vibe Vibe, vegFriendly bool) ([]places.Candidate, map[string]struct{}) {
	set := newCandidateSet()

	r.runBattery(ctx, set, city, vibe, vegFriendly, false)

	for _, fb := range fallbackVibes[vibe] {
		if set.size() >= r.fallbackTarget {
			break
		}
		r.runBattery(ctx, set, city, fb, vegFriendly, true)
	}

	return set.list, set.fallback
}

// runBattery executes every lane for one vibe concurrently under the global
// fan-out cap. A failed or timed-out lane contributes zero candidates and
// never fails the request.
func (r *laneRetriever) runBattery(ctx context.Context, set *candidateSet, city City, vibe Vibe, vegFriendly bool, fromFallback bool) {
	lanes := buildLanes(vibe, vegFriendly)

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for _, ln := range lanes {
		wg.Add(1)
		sem <- struct{}{}
		go func(ln lane) {
			defer wg.Done()
			defer func() { <-sem }()
			set.add(r.runLane(ctx, city, ln), fromFallback)
		}(ln)
	}

	wg.Wait()
}

// runLane executes one lane, cache-first.
func (r *laneRetriever) runLane(ctx context.Context, city City, ln lane) []places.Candidate {
	key := cache.SearchKey(string(ln.kind), city.Lat, city.Lng, searchRadiusMeters, ln.query)

	var cached []places.Candidate
	if r.searchCache.Get(ctx, key, &cached) {
		metrics.LaneSearchesTotal.WithLabelValues(string(ln.kind), "cached").Inc()
		return cached
	}

	var (
		cands []places.Candidate
		err   error
	)
	switch ln.kind {
	case laneText:
		cands, err = r.provider.SearchText(ctx, places.TextQuery{
			Query:        ln.query,
			Lat:          city.Lat,
			Lng:          city.Lng,
			RadiusMeters: searchRadiusMeters,
		})
	default:
		cands, err = r.provider.SearchNearby(ctx, places.NearbyQuery{
			Lat:          city.Lat,
			Lng:          city.Lng,
			RadiusMeters: searchRadiusMeters,
			Keyword:      ln.query,
		})
	}
	if err != nil {
		metrics.LaneSearchesTotal.WithLabelValues(string(ln.kind), "error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("lane", ln.query).Msg("lane search degraded to empty")
		return nil
	}

	metrics.LaneSearchesTotal.WithLabelValues(string(ln.kind), "ok").Inc()
	r.searchCache.Set(ctx, key, cands)
	return cands
}
