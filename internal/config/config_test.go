// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package config

import (
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration fails validation: %v", err)
	}

	if cfg.Environment != EnvDevelopment {
		t.Errorf("default environment = %q, want %q", cfg.Environment, EnvDevelopment)
	}
	if cfg.RateLimit.GuestPerMinute != 3 || cfg.RateLimit.GuestPerDay != 40 {
		t.Errorf("guest caps = %d/min %d/day, want 3/min 40/day",
			cfg.RateLimit.GuestPerMinute, cfg.RateLimit.GuestPerDay)
	}
	if cfg.RateLimit.AuthPerMinute != 8 || cfg.RateLimit.AuthPerDay != 200 {
		t.Errorf("auth caps = %d/min %d/day, want 8/min 200/day",
			cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthPerDay)
	}
	if cfg.Recommend.DetailConcurrency > cfg.Recommend.LaneConcurrency {
		t.Error("default detail concurrency exceeds lane concurrency")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
			wantOK: true,
		},
		{
			name:   "unknown environment",
			mutate: func(c *Config) { c.Environment = "staging" },
			wantOK: false,
		},
		{
			name:   "port out of range",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			wantOK: false,
		},
		{
			name:   "missing places base url",
			mutate: func(c *Config) { c.Places.BaseURL = "" },
			wantOK: false,
		},
		{
			name:   "non-http places url",
			mutate: func(c *Config) { c.Places.BaseURL = "ftp://example.com" },
			wantOK: false,
		},
		{
			name:   "production requires places api key",
			mutate: func(c *Config) { c.Environment = EnvProduction; c.Places.APIKey = "" },
			wantOK: false,
		},
		{
			name:   "production with api key passes",
			mutate: func(c *Config) { c.Environment = EnvProduction; c.Places.APIKey = "k" },
			wantOK: true,
		},
		{
			name:   "copywriter enabled without url",
			mutate: func(c *Config) { c.Copywriter.Enabled = true },
			wantOK: false,
		},
		{
			name:   "zero guest cap",
			mutate: func(c *Config) { c.RateLimit.GuestPerMinute = 0 },
			wantOK: false,
		},
		{
			name:   "detail concurrency above lane concurrency",
			mutate: func(c *Config) { c.Recommend.DetailConcurrency = c.Recommend.LaneConcurrency + 1 },
			wantOK: false,
		},
		{
			name:   "non-positive temperature",
			mutate: func(c *Config) { c.Recommend.Temperature = 0 },
			wantOK: false,
		},
		{
			name:   "zero search ttl",
			mutate: func(c *Config) { c.Recommend.SearchTTL = 0 },
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VENUESCOUT_ENVIRONMENT", "environment"},
		{"VENUESCOUT_SERVER_PORT", "server.port"},
		{"VENUESCOUT_SERVER_READ_TIMEOUT", "server.read_timeout"},
		{"VENUESCOUT_RATELIMIT_GUEST_PER_DAY", "ratelimit.guest_per_day"},
		{"VENUESCOUT_PLACES_API_KEY", "places.api_key"},
		{"VENUESCOUT_RECOMMEND_DETAIL_BUDGET", "recommend.detail_budget"},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VENUESCOUT_SERVER_PORT", "9999")
	t.Setenv("VENUESCOUT_RATELIMIT_GUEST_PER_MINUTE", "5")
	t.Setenv("VENUESCOUT_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999 from env", cfg.Server.Port)
	}
	if cfg.RateLimit.GuestPerMinute != 5 {
		t.Errorf("guest per minute = %d, want 5 from env", cfg.RateLimit.GuestPerMinute)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("cors origin[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8089}
	if got := s.Addr(); got != "127.0.0.1:8089" {
		t.Errorf("Addr() = %q, want %q", got, "127.0.0.1:8089")
	}
}
