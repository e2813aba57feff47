// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package places

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/metrics"
)

// Provider is the interface the engine consumes. The HTTP client below is
// the production implementation; tests supply fakes.
type Provider interface {
	// SearchNearby runs a keyword/category search around a point.
	SearchNearby(ctx context.Context, q NearbyQuery) ([]Candidate, error)

	// SearchText runs a free-text search biased to a point.
	SearchText(ctx context.Context, q TextQuery) ([]Candidate, error)

	// Details fetches the structured details record for one place.
	Details(ctx context.Context, placeID string) (*DetailRecord, error)
}

// NearbyQuery parameterizes a keyword lane.
type NearbyQuery struct {
	Lat          float64
	Lng          float64
	RadiusMeters int
	Keyword      string
}

// TextQuery parameterizes a free-text lane.
type TextQuery struct {
	Query        string
	Lat          float64
	Lng          float64
	RadiusMeters int
}

// ErrNotFound indicates the provider has no record for the place.
var ErrNotFound = errors.New("places: place not found")

// Client talks to a Google-Places-compatible HTTP API. Outbound throughput
// is bounded by a client-side limiter; per-call deadlines come from the
// http.Client timeout and the caller's context.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a provider client from configuration.
func NewClient(cfg config.PlacesConfig) *Client {
	qps := cfg.MaxQPS
	if qps <= 0 {
		qps = 10
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(qps), int(qps)),
	}
}

// searchResponse mirrors the provider's search payloads (nearby and text
// search share the shape).
type searchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// detailsResponse mirrors the provider's details payload.
type detailsResponse struct {
	Status string `json:"status"`
	Result struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		Rating           *float64 `json:"rating"`
		UserRatingsTotal *int     `json:"user_ratings_total"`
		PriceLevel       *int     `json:"price_level"`
		Types            []string `json:"types"`
		BusinessStatus   string   `json:"business_status"`
		FormattedAddress string   `json:"formatted_address"`
		UTCOffset        *int     `json:"utc_offset"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
			Periods []struct {
				Open struct {
					Day  int    `json:"day"`
					Time string `json:"time"`
				} `json:"open"`
				Close *struct {
					Day  int    `json:"day"`
					Time string `json:"time"`
				} `json:"close"`
			} `json:"periods"`
		} `json:"opening_hours"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

// SearchNearby runs one keyword lane against the provider.
func (c *Client) SearchNearby(ctx context.Context, q NearbyQuery) ([]Candidate, error) {
	v := url.Values{}
	v.Set("location", fmt.Sprintf("%f,%f", q.Lat, q.Lng))
	v.Set("radius", strconv.Itoa(q.RadiusMeters))
	v.Set("keyword", q.Keyword)
	return c.search(ctx, "/nearbysearch/json", v)
}

// SearchText runs one free-text lane against the provider.
func (c *Client) SearchText(ctx context.Context, q TextQuery) ([]Candidate, error) {
	v := url.Values{}
	v.Set("query", q.Query)
	v.Set("location", fmt.Sprintf("%f,%f", q.Lat, q.Lng))
	v.Set("radius", strconv.Itoa(q.RadiusMeters))
	return c.search(ctx, "/textsearch/json", v)
}

func (c *Client) search(ctx context.Context, path string, v url.Values) ([]Candidate, error) {
	var sr searchResponse
	if err := c.get(ctx, path, v, &sr); err != nil {
		return nil, err
	}
	if sr.Status != "OK" && sr.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("places: search status %s", sr.Status)
	}

	out := make([]Candidate, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.PlaceID == "" {
			continue
		}
		out = append(out, Candidate{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Lat:     r.Geometry.Location.Lat,
			Lng:     r.Geometry.Location.Lng,
		})
	}
	return out, nil
}

// Details fetches the structured details record for one place.
func (c *Client) Details(ctx context.Context, placeID string) (*DetailRecord, error) {
	v := url.Values{}
	v.Set("place_id", placeID)
	v.Set("fields", "place_id,name,rating,user_ratings_total,price_level,types,business_status,formatted_address,geometry,opening_hours,utc_offset,photos")

	var dr detailsResponse
	if err := c.get(ctx, "/details/json", v, &dr); err != nil {
		return nil, err
	}
	switch dr.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS":
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("places: details status %s", dr.Status)
	}

	r := dr.Result
	rec := &DetailRecord{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		Rating:           r.Rating,
		RatingCount:      r.UserRatingsTotal,
		PriceLevel:       r.PriceLevel,
		Types:            r.Types,
		BusinessStatus:   r.BusinessStatus,
		Address:          r.FormattedAddress,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		UTCOffsetMinutes: r.UTCOffset,
	}

	if oh := r.OpeningHours; oh != nil {
		rec.OpenNow = oh.OpenNow
		for _, p := range oh.Periods {
			period := OpeningPeriod{
				Open: OpeningPoint{Day: p.Open.Day, Time: p.Open.Time},
			}
			if p.Close != nil {
				period.Close = &OpeningPoint{Day: p.Close.Day, Time: p.Close.Time}
			}
			rec.Periods = append(rec.Periods, period)
		}
	}

	for _, p := range r.Photos {
		if p.PhotoReference != "" {
			rec.PhotoRefs = append(rec.PhotoRefs, p.PhotoReference)
		}
	}

	return rec, nil
}

// get executes one provider call under the QPS limiter.
func (c *Client) get(ctx context.Context, path string, v url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("places: limiter wait: %w", err)
	}

	v.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+v.Encode(), nil)
	if err != nil {
		return fmt.Errorf("places: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("places").Inc()
		return fmt.Errorf("places: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrorsTotal.WithLabelValues("places").Inc()
		return fmt.Errorf("places: provider returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("places: decode response: %w", err)
	}
	return nil
}
