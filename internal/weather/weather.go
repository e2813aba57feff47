// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package weather consumes the external forecast provider and derives the
// condition flags shared by all filtering and scoring decisions.
//
// The provider is an Open-Meteo style hourly forecast API. A failed or
// timed-out fetch yields zero-value flags and is never fatal: recommendations
// simply proceed without weather conditioning.
package weather

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
)

// Flag thresholds. Derived once per request so every component judges the
// same weather.
const (
	precipProbabilityThreshold = 40.0 // percent
	coldThresholdC             = 8.0
	veryColdThresholdC         = 0.0
	windyThresholdKmh          = 25.0
	veryWindyThresholdKmh      = 40.0

	// lookaheadHours bounds how far ahead the flags look. An evening plan
	// only cares about the next few hours.
	lookaheadHours = 6
)

// Flags are the derived per-request weather booleans plus the minimum
// upcoming temperature.
type Flags struct {
	Precip    bool    `json:"precip"`
	Cold      bool    `json:"cold"`
	VeryCold  bool    `json:"veryCold"`
	Windy     bool    `json:"windy"`
	VeryWindy bool    `json:"veryWindy"`
	MinTempC  float64 `json:"minTempC"`
}

// Bad reports whether the flags veto outdoor-leaning venues outright.
func (f Flags) Bad() bool {
	return f.Precip || f.VeryCold || f.VeryWindy
}

// Summary is the caller-facing weather annotation on a response.
type Summary struct {
	TempC     float64 `json:"tempC"`
	Condition string  `json:"condition"`
	Flags     Flags   `json:"flags"`
}

// Client fetches forecasts from the provider.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a forecast client from configuration.
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// forecastResponse mirrors the provider's hourly payload.
type forecastResponse struct {
	Hourly struct {
		Time              []string  `json:"time"`
		Temperature2M     []float64 `json:"temperature_2m"`
		PrecipProbability []float64 `json:"precipitation_probability"`
		WindSpeed10M      []float64 `json:"wind_speed_10m"`
		WeatherCode       []int     `json:"weather_code"`
	} `json:"hourly"`
}

// Fetch returns the weather summary for the coordinates. On any failure it
// returns a zero-value summary and false; the caller proceeds without
// weather conditioning.
func (c *Client) Fetch(ctx context.Context, lat, lng float64) (Summary, bool) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lng, 'f', 4, 64))
	q.Set("hourly", "temperature_2m,precipitation_probability,wind_speed_10m,weather_code")
	q.Set("forecast_hours", strconv.Itoa(lookaheadHours))
	q.Set("timezone", "UTC")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Summary{}, false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("weather").Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("weather fetch failed, proceeding without flags")
		return Summary{}, false
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrorsTotal.WithLabelValues("weather").Inc()
		logging.Ctx(ctx).Warn().Int("status", resp.StatusCode).Msg("weather provider returned non-200")
		return Summary{}, false
	}

	var fc forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("weather").Inc()
		return Summary{}, false
	}

	if len(fc.Hourly.Temperature2M) == 0 {
		return Summary{}, false
	}

	return Summarize(fc.Hourly.Temperature2M, fc.Hourly.PrecipProbability, fc.Hourly.WindSpeed10M, fc.Hourly.WeatherCode), true
}

// Summarize derives flags from parallel hourly series. Exposed for tests.
func Summarize(temps, precipProb, wind []float64, codes []int) Summary {
	flags := Flags{MinTempC: temps[0]}

	for i, t := range temps {
		if t < flags.MinTempC {
			flags.MinTempC = t
		}
		if i < len(precipProb) && precipProb[i] >= precipProbabilityThreshold {
			flags.Precip = true
		}
		if i < len(wind) {
			if wind[i] >= veryWindyThresholdKmh {
				flags.VeryWindy = true
			}
			if wind[i] >= windyThresholdKmh {
				flags.Windy = true
			}
		}
		if i < len(codes) && isPrecipCode(codes[i]) {
			flags.Precip = true
		}
	}

	flags.Cold = flags.MinTempC < coldThresholdC
	flags.VeryCold = flags.MinTempC < veryColdThresholdC

	return Summary{
		TempC:     temps[0],
		Condition: condition(flags, codes),
		Flags:     flags,
	}
}

// isPrecipCode reports whether a WMO weather code indicates precipitation.
func isPrecipCode(code int) bool {
	// 51+ covers drizzle, rain, freezing rain, snow, showers, thunderstorms.
	return code >= 51
}

// condition picks a coarse human-readable label for the response.
func condition(flags Flags, codes []int) string {
	switch {
	case flags.Precip:
		return "precipitation"
	case flags.VeryWindy:
		return "very windy"
	case flags.VeryCold:
		return "freezing"
	case flags.Windy:
		return "windy"
	case flags.Cold:
		return "cold"
	case len(codes) > 0 && codes[0] <= 1:
		return "clear"
	default:
		return "mild"
	}
}
