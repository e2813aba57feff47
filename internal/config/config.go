// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package config holds all application configuration loaded from defaults,
// an optional YAML config file, and environment variables (in that order,
// later sources override earlier ones).
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Environment names accepted by Config.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all application configuration.
type Config struct {
	// Environment selects fail-open (development) or fail-closed (production)
	// behavior when the counter store is unavailable.
	Environment string `koanf:"environment"`

	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Places     PlacesConfig     `koanf:"places"`
	Weather    WeatherConfig    `koanf:"weather"`
	Copywriter CopywriterConfig `koanf:"copywriter"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed origins for browser clients.
	CORSOrigins []string `koanf:"cors_origins"`

	// IPRequestsPerMinute is the coarse outer per-IP throttle applied by
	// httprate before the domain rate limiter runs.
	IPRequestsPerMinute int `koanf:"ip_requests_per_minute"`
}

// StoreConfig configures the embedded Badger key-value store used for the
// TTL cache and rate-limit counters.
type StoreConfig struct {
	// Path is the Badger data directory. Empty selects an in-memory store.
	Path string `koanf:"path"`

	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// PlacesConfig configures the place-search provider client.
type PlacesConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// Timeout bounds each outbound provider call. Must be shorter than the
	// overall request budget; a timed-out lane degrades to zero candidates.
	Timeout time.Duration `koanf:"timeout"`

	// MaxQPS bounds outbound provider throughput via a client-side limiter.
	MaxQPS float64 `koanf:"max_qps"`
}

// WeatherConfig configures the forecast provider client.
type WeatherConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CopywriterConfig configures the optional copy generator collaborator.
// When disabled, deterministic fallback text is used for all annotations.
type CopywriterConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// RateLimitConfig configures per-identity admission control.
type RateLimitConfig struct {
	GuestPerMinute int `koanf:"guest_per_minute"`
	GuestPerDay    int `koanf:"guest_per_day"`
	AuthPerMinute  int `koanf:"auth_per_minute"`
	AuthPerDay     int `koanf:"auth_per_day"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	// SearchTTL is the cache lifetime for lane search results.
	SearchTTL time.Duration `koanf:"search_ttl"`

	// DetailsTTL is the cache lifetime for place detail records.
	DetailsTTL time.Duration `koanf:"details_ttl"`

	// LaneConcurrency is the global fan-out cap shared by all lane searches.
	LaneConcurrency int `koanf:"lane_concurrency"`

	// DetailConcurrency bounds the detail-fetch worker pool. Kept below
	// LaneConcurrency because detail calls are more quota-sensitive.
	DetailConcurrency int `koanf:"detail_concurrency"`

	// DetailBudget is the maximum number of detail fetches per request.
	DetailBudget int `koanf:"detail_budget"`

	// FallbackTarget stops the fallback-vibe lane battery early once this
	// many distinct candidates have been gathered.
	FallbackTarget int `koanf:"fallback_target"`

	// Temperature scales Boltzmann weights in the selector.
	Temperature float64 `koanf:"temperature"`

	// Seed fixes the random source; 0 selects a time-based seed.
	Seed int64 `koanf:"seed"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for consistency. It is called by Load()
// and returns an error describing the first invalid field found.
func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("environment must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Environment)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}

	if c.Places.BaseURL == "" {
		return fmt.Errorf("places.base_url is required")
	}
	if c.Environment == EnvProduction && c.Places.APIKey == "" {
		return fmt.Errorf("places.api_key is required in production")
	}
	if !strings.HasPrefix(c.Places.BaseURL, "http://") && !strings.HasPrefix(c.Places.BaseURL, "https://") {
		return fmt.Errorf("places.base_url must be an http(s) URL, got %q", c.Places.BaseURL)
	}
	if c.Places.Timeout <= 0 {
		return fmt.Errorf("places.timeout must be positive, got %s", c.Places.Timeout)
	}

	if c.Weather.BaseURL == "" {
		return fmt.Errorf("weather.base_url is required")
	}

	if c.Copywriter.Enabled && c.Copywriter.BaseURL == "" {
		return fmt.Errorf("copywriter.base_url is required when copywriter is enabled")
	}

	if c.RateLimit.GuestPerMinute <= 0 || c.RateLimit.AuthPerMinute <= 0 {
		return fmt.Errorf("ratelimit per-minute caps must be positive")
	}
	if c.RateLimit.GuestPerDay <= 0 || c.RateLimit.AuthPerDay <= 0 {
		return fmt.Errorf("ratelimit per-day caps must be positive")
	}

	r := c.Recommend
	if r.LaneConcurrency <= 0 {
		return fmt.Errorf("recommend.lane_concurrency must be positive, got %d", r.LaneConcurrency)
	}
	if r.DetailConcurrency <= 0 || r.DetailConcurrency > r.LaneConcurrency {
		return fmt.Errorf("recommend.detail_concurrency must be in [1, lane_concurrency], got %d", r.DetailConcurrency)
	}
	if r.DetailBudget <= 0 {
		return fmt.Errorf("recommend.detail_budget must be positive, got %d", r.DetailBudget)
	}
	if r.Temperature <= 0 {
		return fmt.Errorf("recommend.temperature must be positive, got %f", r.Temperature)
	}
	if r.SearchTTL <= 0 || r.DetailsTTL <= 0 {
		return fmt.Errorf("recommend cache TTLs must be positive")
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
