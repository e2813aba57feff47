// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package copywriter consumes the external natural-language copy generator.
// The annotations are purely cosmetic: when the generator is disabled or
// fails, deterministic fallback text is used and the request proceeds.
package copywriter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/metrics"
)

// Annotation is the optional per-venue text pair.
type Annotation struct {
	Why       string `json:"why"`
	Watchouts string `json:"watchouts"`
}

// Annotator produces why/watchouts text for one venue.
type Annotator interface {
	Annotate(ctx context.Context, vibe, category, venueName string) Annotation
}

// Fallback produces deterministic text keyed by (vibe, category). It is the
// production behavior when the copy generator is disabled, and the safety
// net when it fails.
type Fallback struct{}

// Annotate returns the deterministic fallback pair.
func (Fallback) Annotate(_ context.Context, vibe, category, _ string) Annotation {
	return Annotation{
		Why:       fmt.Sprintf("A solid %s pick for a %s outing.", category, vibe),
		Watchouts: "Hours can shift on holidays; a quick call ahead never hurts.",
	}
}

// HTTPAnnotator calls the external copy generator, falling back to the
// deterministic text on any failure.
type HTTPAnnotator struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	fallback Fallback
}

// NewHTTPAnnotator creates an annotator from configuration.
func NewHTTPAnnotator(cfg config.CopywriterConfig) *HTTPAnnotator {
	return &HTTPAnnotator{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type annotateRequest struct {
	Vibe     string `json:"vibe"`
	Category string `json:"category"`
	Venue    string `json:"venue"`
}

// Annotate asks the generator for copy. Failures are absorbed: the caller
// always receives usable text.
func (a *HTTPAnnotator) Annotate(ctx context.Context, vibe, category, venueName string) Annotation {
	body, err := json.Marshal(annotateRequest{Vibe: vibe, Category: category, Venue: venueName})
	if err != nil {
		return a.fallback.Annotate(ctx, vibe, category, venueName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/annotate", bytes.NewReader(body))
	if err != nil {
		return a.fallback.Annotate(ctx, vibe, category, venueName)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("copywriter").Inc()
		logging.Ctx(ctx).Debug().Err(err).Msg("copywriter unavailable, using fallback text")
		return a.fallback.Annotate(ctx, vibe, category, venueName)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamErrorsTotal.WithLabelValues("copywriter").Inc()
		return a.fallback.Annotate(ctx, vibe, category, venueName)
	}

	var out Annotation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Why == "" {
		return a.fallback.Annotate(ctx, vibe, category, venueName)
	}
	return out
}
