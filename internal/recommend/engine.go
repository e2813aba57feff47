// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package recommend implements the candidate retrieval, caching,
// feasibility-filtering, and scoring engine: it turns a loosely-specified
// intent (city + vibe + constraints + exclusion history) into a ranked,
// diversified shortlist plus a larger swap pool, under hard latency and
// quota budgets.
package recommend

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuescout/venuescout/internal/cache"
	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/copywriter"
	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/metrics"
	"github.com/venuescout/venuescout/internal/places"
	"github.com/venuescout/venuescout/internal/weather"
)

// ForecastSource supplies the per-request weather summary. Implemented by
// the weather client; tests supply fixed flags.
type ForecastSource interface {
	Fetch(ctx context.Context, lat, lng float64) (weather.Summary, bool)
}

// Engine coordinates one recommendation request end to end. It holds no
// per-request state and is safe for concurrent use; the only shared mutable
// resource is the external KV store.
type Engine struct {
	retriever *laneRetriever
	resolver  *detailsResolver
	scorer    *Scorer
	selector  *Selector
	forecast  ForecastSource
	annotator copywriter.Annotator
	logger    zerolog.Logger

	// now is the engine's clock; injectable for tests.
	now func() time.Time
}

// NewEngine wires the engine from configuration and collaborators.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func NewEngine(cfg config.RecommendConfig, provider places.Provider, store kvstore.Store, forecast ForecastSource, annotator copywriter.Annotator, logger zerolog.Logger) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		retriever: &laneRetriever{
			provider:       provider,
			searchCache:    cache.New(store, cfg.SearchTTL, "search"),
			concurrency:    cfg.LaneConcurrency,
			fallbackTarget: cfg.FallbackTarget,
		},
		resolver: &detailsResolver{
			provider:     provider,
			detailsCache: cache.New(store, cfg.DetailsTTL, "details"),
			concurrency:  cfg.DetailConcurrency,
			budget:       cfg.DetailBudget,
		},
		scorer:    NewScorer(seed, defaultJitter),
		selector:  NewSelector(seed+1, cfg.Temperature),
		forecast:  forecast,
		annotator: annotator,
		logger:    logger.With().Str("component", "recommend").Logger(),
		now:       time.Now,
	}
}

// SetClock replaces the engine's time source. Test helper.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Recommend executes the full pipeline: lanes → dedupe → distance sort →
// details → options → score once → relaxed filter → diversified pool, and
// strict filter → selector → shortlist. Upstream failures degrade to fewer
// candidates; Recommend itself only fails on caller-level errors, which the
// API layer screens before calling in.
func (e *Engine) Recommend(ctx context.Context, req Request) *Response {
	city := ResolveCity(req.City)
	vibe := ParseVibe(req.Vibe)
	companion := ParseCompanion(req.WithWho)
	fresh := NewFreshnessSets(req.SeenIDs, req.SwappedIDs)

	now := e.now()
	localNow := now.In(city.Location())
	localHour := localNow.Hour()
	tzOffset := city.TZOffsetSeconds(now)

	// Weather resolves concurrently with candidate retrieval; both sides
	// are needed before filtering starts.
	var (
		wx   weather.Summary
		wxWG sync.WaitGroup
	)
	wxWG.Add(1)
	go func() {
		defer wxWG.Done()
		wx, _ = e.forecast.Fetch(ctx, city.Lat, city.Lng)
	}()

	cands, fallbackIDs := e.retriever.retrieve(ctx, city, vibe, req.VegFriendly)
	recs := e.resolver.resolve(ctx, cands, city, tzOffset)
	wxWG.Wait()

	e.logger.Debug().
		Int("candidates", len(cands)).
		Int("detailed", len(recs)).
		Str("vibe", string(vibe)).
		Str("city", city.Name).
		Msg("retrieval complete")

	options := e.buildOptions(recs, city, vibe, now, fallbackIDs)

	// Score once; both filtering passes reuse the same scores.
	for i := range options {
		options[i].Score = e.scorer.Score(&options[i], vibe, companion, localHour, wx.Flags, fresh, req.VegFriendly)
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Score > options[j].Score })

	// Relaxed pass feeds the swap pool. Swapped-away identifiers are hard
	// excluded here regardless of score.
	var relaxed []Option
	for i := range options {
		if _, swapped := fresh.Swapped[options[i].ID]; swapped {
			continue
		}
		if ok, _ := Feasible(&options[i], RelaxedProfile, vibe, wx.Flags, now, localHour); ok {
			relaxed = append(relaxed, options[i])
		}
	}
	pool := DiversifyPool(relaxed)

	// Strict pass feeds the selector. Fallback-battery supply is pool-only
	// and never considered here. Rejection reasons are tallied for the
	// limited-availability explanation.
	var strict []Option
	reasons := make(map[RejectReason]int)
	for i := range options {
		if options[i].poolOnly {
			continue
		}
		ok, reason := Feasible(&options[i], StrictProfile, vibe, wx.Flags, now, localHour)
		if ok {
			strict = append(strict, options[i])
		} else {
			reasons[reason]++
		}
	}

	shortlist := e.selector.Pick(strict)
	e.annotate(ctx, shortlist, vibe)

	metrics.ShortlistSize.Observe(float64(len(shortlist)))

	meta := Meta{Pool: pool}
	if len(shortlist) < shortlistSize {
		meta.LimitedAvailability = true
		reason := limitedReason(reasons)
		meta.Reason = &reason
		metrics.RecommendRequestsTotal.WithLabelValues("limited").Inc()
	} else {
		metrics.RecommendRequestsTotal.WithLabelValues("ok").Inc()
	}

	return &Response{
		Options: shortlist,
		Weather: wx,
		Meta:    meta,
	}
}

// buildOptions assembles request-scoped options from detail records.
// Closing time is computed only for provider-confirmed open venues with a
// parseable weekly schedule, in the venue's own timezone when reported.
func (e *Engine) buildOptions(recs []*places.DetailRecord, city City, vibe Vibe, now time.Time, fallbackIDs map[string]struct{}) []Option {
	cityLoc := city.Location()

	options := make([]Option, 0, len(recs))
	for _, rec := range recs {
		cat := MapCategory(rec.Types, vibe)
		_, poolOnly := fallbackIDs[rec.PlaceID]

		o := Option{
			ID:          rec.PlaceID,
			Name:        rec.Name,
			Category:    cat,
			Rating:      rec.Rating,
			RatingCount: rec.RatingCount,
			PriceLevel:  rec.PriceLevel,
			Address:     rec.Address,
			Lat:         rec.Lat,
			Lng:         rec.Lng,
			DistanceKm:  haversineKm(city.Lat, city.Lng, rec.Lat, rec.Lng),
			OpenStatus:  "unknown",
			poolOnly:    poolOnly,
		}

		if rec.OpenNow != nil {
			if *rec.OpenNow {
				o.OpenStatus = "open"
			} else {
				o.OpenStatus = "closed"
			}
		}

		if rec.OpenNow != nil && *rec.OpenNow {
			loc := cityLoc
			if rec.UTCOffsetMinutes != nil {
				loc = time.FixedZone("venue", *rec.UTCOffsetMinutes*60)
			}
			if ci := resolveClosing(rec.Periods, now, loc); ci != nil {
				o.ClosingTime = ci.label
				ts := ci.closeTS
				o.CloseTS = &ts
			}
		}

		o.PhotoRefs = rec.PhotoRefs

		// Deterministic fallback text; the shortlist is re-annotated by
		// the copy collaborator after selection.
		fb := copywriter.Fallback{}.Annotate(context.Background(), string(vibe), string(cat), rec.Name)
		o.Why = fb.Why
		o.Watchouts = fb.Watchouts

		options = append(options, o)
	}
	return options
}

// annotate fills why/watchouts on the shortlist via the copy collaborator.
// Annotations are cosmetic; failures leave the fallback text in place.
func (e *Engine) annotate(ctx context.Context, shortlist []Option, vibe Vibe) {
	var wg sync.WaitGroup
	for i := range shortlist {
		wg.Add(1)
		go func(o *Option) {
			defer wg.Done()
			a := e.annotator.Annotate(ctx, string(vibe), string(o.Category), o.Name)
			if a.Why != "" {
				o.Why = a.Why
			}
			if a.Watchouts != "" {
				o.Watchouts = a.Watchouts
			}
		}(&shortlist[i])
	}
	wg.Wait()
}

// limitedReason picks the best-guess human-readable explanation from the
// most frequent strict-pass rejection cause.
func limitedReason(reasons map[RejectReason]int) string {
	var top RejectReason
	best := 0
	for r, n := range reasons {
		if n > best {
			top, best = r, n
		}
	}

	switch top {
	case RejectWeatherBlock:
		return "the weather is working against outdoor spots right now"
	case RejectClosingSoon:
		return "most nearby venues are closing soon"
	case RejectUnknownHours:
		return "opening hours could not be verified for most matches"
	case RejectTooFar:
		return "few venues are close enough to the city center"
	case RejectClosed:
		return "most matching venues are already closed"
	default:
		return "venue supply is thin for this vibe right now"
	}
}
