// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/venuescout/config.yaml",
	"/etc/venuescout/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "VENUESCOUT_CONFIG"

// envPrefix namespaces all environment variables consumed by Load.
const envPrefix = "VENUESCOUT_"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                8089,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        30 * time.Second,
			ShutdownTimeout:     15 * time.Second,
			CORSOrigins:         []string{"*"},
			IPRequestsPerMinute: 120,
		},
		Store: StoreConfig{
			Path:       "", // in-memory by default; set for persistence across restarts
			GCInterval: 10 * time.Minute,
		},
		Places: PlacesConfig{
			BaseURL: "https://maps.googleapis.com/maps/api/place",
			APIKey:  "",
			Timeout: 4 * time.Second,
			MaxQPS:  25,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.open-meteo.com/v1/forecast",
			Timeout: 3 * time.Second,
		},
		Copywriter: CopywriterConfig{
			Enabled: false,
			BaseURL: "",
			APIKey:  "",
			Timeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			GuestPerMinute: 3,
			GuestPerDay:    40,
			AuthPerMinute:  8,
			AuthPerDay:     200,
		},
		Recommend: RecommendConfig{
			SearchTTL:         5 * time.Minute,
			DetailsTTL:        30 * time.Minute,
			LaneConcurrency:   8,
			DetailConcurrency: 4,
			DetailBudget:      48,
			FallbackTarget:    90,
			Temperature:       18,
			Seed:              0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds configuration from layered sources using koanf:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. VENUESCOUT_* environment variables (highest priority)
//
// The returned Config has passed Validate().
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// VENUESCOUT_SERVER_PORT -> server.port, VENUESCOUT_PLACES_API_KEY -> places.api_key
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps a VENUESCOUT_* variable name to a koanf config path.
// The first underscore-separated token after the prefix is the section; the
// remainder keeps its underscores:
//
//	VENUESCOUT_ENVIRONMENT              -> environment
//	VENUESCOUT_SERVER_READ_TIMEOUT      -> server.read_timeout
//	VENUESCOUT_RATELIMIT_GUEST_PER_DAY  -> ratelimit.guest_per_day
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	if key == "environment" {
		return key
	}

	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key
	}
	return parts[0] + "." + parts[1]
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// supplied via environment variables.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings but the config expects
// slices; YAML values are already slices and pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
