// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/copywriter"
	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/places"
	"github.com/venuescout/venuescout/internal/ratelimit"
	"github.com/venuescout/venuescout/internal/recommend"
	"github.com/venuescout/venuescout/internal/weather"
)

// stubProvider serves one always-open cafe.
type stubProvider struct{}

func (stubProvider) SearchNearby(_ context.Context, _ places.NearbyQuery) ([]places.Candidate, error) {
	return []places.Candidate{{PlaceID: "p1", Name: "Test Cafe", Lat: 52.521, Lng: 13.406}}, nil
}

func (stubProvider) SearchText(_ context.Context, _ places.TextQuery) ([]places.Candidate, error) {
	return nil, nil
}

func (stubProvider) Details(_ context.Context, placeID string) (*places.DetailRecord, error) {
	open := true
	rating := 4.4
	count := 88
	rec := &places.DetailRecord{
		PlaceID:        placeID,
		Name:           "Test Cafe",
		Rating:         &rating,
		RatingCount:    &count,
		Types:          []string{"cafe"},
		OpenNow:        &open,
		BusinessStatus: places.StatusOperational,
		Lat:            52.521,
		Lng:            13.406,
	}
	for day := 0; day < 7; day++ {
		rec.Periods = append(rec.Periods, places.OpeningPeriod{
			Open:  places.OpeningPoint{Day: day, Time: "0800"},
			Close: &places.OpeningPoint{Day: day, Time: "2330"},
		})
	}
	return rec, nil
}

type stubForecast struct{}

func (stubForecast) Fetch(_ context.Context, _, _ float64) (weather.Summary, bool) {
	return weather.Summary{}, false
}

func newTestRouter(t *testing.T, store *kvstore.MemoryStore, rl config.RateLimitConfig, failOpen bool) http.Handler {
	t.Helper()

	engine := recommend.NewEngine(
		config.RecommendConfig{
			SearchTTL:         time.Minute,
			DetailsTTL:        time.Minute,
			LaneConcurrency:   4,
			DetailConcurrency: 2,
			DetailBudget:      10,
			FallbackTarget:    90,
			Temperature:       18,
			Seed:              1,
		},
		stubProvider{},
		store,
		stubForecast{},
		copywriter.Fallback{},
		logging.NewTestLogger(io.Discard),
	)
	// Mid-evening in Berlin, hours from closing.
	engine.SetClock(func() time.Time { return time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC) })
	limiter := ratelimit.New(store, rl, failOpen)
	h := NewHandler(engine, limiter, store)
	return NewRouter(h, config.ServerConfig{CORSOrigins: []string{"*"}})
}

func defaultRL() config.RateLimitConfig {
	return config.RateLimitConfig{GuestPerMinute: 3, GuestPerDay: 40, AuthPerMinute: 8, AuthPerDay: 200}
}

func postRecommendation(router http.Handler, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.9:4711"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRecommendEndpoint(t *testing.T) {
	router := newTestRouter(t, kvstore.NewMemoryStore(), defaultRL(), false)

	rec := postRecommendation(router, `{"city":"Berlin","vibe":"Cozy"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Options []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"options"`
		Meta struct {
			LimitedAvailability bool `json:"limitedAvailability"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not decodable: %v", err)
	}
	if len(resp.Options) == 0 {
		t.Fatal("no options in response")
	}
	if resp.Options[0].Category == "" {
		t.Error("option missing category")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response missing X-Request-ID header")
	}
}

func TestRecommendEndpointBadInput(t *testing.T) {
	router := newTestRouter(t, kvstore.NewMemoryStore(), defaultRL(), false)

	tests := []struct {
		name string
		body string
	}{
		{"broken json", `{"city":`},
		{"missing required fields", `{}`},
		{"city too long", `{"city":"` + strings.Repeat("x", 100) + `","vibe":"Cozy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRecommendation(router, tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("error body not decodable: %v", err)
			}
			if body.Error.Code != CodeInvalidInput {
				t.Errorf("code = %q, want %q", body.Error.Code, CodeInvalidInput)
			}
		})
	}
}

func TestRecommendEndpointRateLimited(t *testing.T) {
	rl := defaultRL()
	rl.GuestPerMinute = 1
	router := newTestRouter(t, kvstore.NewMemoryStore(), rl, false)

	if rec := postRecommendation(router, `{"city":"Berlin","vibe":"Cozy"}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec := postRecommendation(router, `{"city":"Berlin","vibe":"Cozy"}`, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not decodable: %v", err)
	}
	if body.Error.Code != CodeRateLimited {
		t.Errorf("code = %q, want %q", body.Error.Code, CodeRateLimited)
	}
	if body.RetryAfter <= 0 {
		t.Errorf("retryAfter = %d, want positive", body.RetryAfter)
	}
}

func TestRecommendEndpointStoreOutage(t *testing.T) {
	store := kvstore.NewMemoryStore()
	router := newTestRouter(t, store, defaultRL(), false)
	store.SetUnavailable(true)

	rec := postRecommendation(router, `{"city":"Berlin","vibe":"Cozy"}`, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status during outage = %d, want 500", rec.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not decodable: %v", err)
	}
	if body.Error.Code != CodeConfigurationMissing {
		t.Errorf("code = %q, want %q", body.Error.Code, CodeConfigurationMissing)
	}
}

func TestRecommendEndpointStoreOutageFailOpen(t *testing.T) {
	store := kvstore.NewMemoryStore()
	router := newTestRouter(t, store, defaultRL(), true)
	store.SetUnavailable(true)

	rec := postRecommendation(router, `{"city":"Berlin","vibe":"Cozy"}`, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("fail-open status during outage = %d, want 200", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	store := kvstore.NewMemoryStore()
	router := newTestRouter(t, store, defaultRL(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	store.SetUnavailable(true)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status during outage = %d, want 503", rec.Code)
	}
}

func TestIdentity(t *testing.T) {
	base := httptest.NewRequest(http.MethodPost, "/", nil)
	base.RemoteAddr = "203.0.113.9:4711"
	base.Header.Set("User-Agent", "test-agent/1.0")

	key1, mode1 := Identity(base)
	if mode1 != ratelimit.ModeGuest {
		t.Errorf("mode = %s, want guest", mode1)
	}

	// Stable for the same IP and agent.
	same := httptest.NewRequest(http.MethodPost, "/", nil)
	same.RemoteAddr = "203.0.113.9:9999" // different port, same host
	same.Header.Set("User-Agent", "test-agent/1.0")
	key2, _ := Identity(same)
	if key1 != key2 {
		t.Errorf("guest identity unstable: %q vs %q", key1, key2)
	}

	// Different agent yields a different identity.
	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "203.0.113.9:4711"
	other.Header.Set("User-Agent", "another-agent/2.0")
	key3, _ := Identity(other)
	if key1 == key3 {
		t.Error("different user agents share a guest identity")
	}

	// Account header switches to the authenticated mode.
	auth := httptest.NewRequest(http.MethodPost, "/", nil)
	auth.Header.Set("X-Account-ID", "user-42")
	keyA, modeA := Identity(auth)
	if modeA != ratelimit.ModeAuthenticated {
		t.Errorf("mode = %s, want authenticated", modeA)
	}
	if keyA != "acct:user-42" {
		t.Errorf("authenticated key = %q, want acct:user-42", keyA)
	}
}
