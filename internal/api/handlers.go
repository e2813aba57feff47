// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/venuescout/venuescout/internal/kvstore"
	"github.com/venuescout/venuescout/internal/logging"
	"github.com/venuescout/venuescout/internal/ratelimit"
	"github.com/venuescout/venuescout/internal/recommend"
	"github.com/venuescout/venuescout/internal/validation"
)

// maxBodyBytes bounds the request body. Freshness sets are the only
// variable-size input and are capped at 220 IDs anyway.
const maxBodyBytes = 1 << 18

// requestBudget bounds the end-to-end recommendation pipeline per request.
const requestBudget = 12 * time.Second

// Handler exposes the HTTP surface of the recommendation engine.
type Handler struct {
	engine  *recommend.Engine
	limiter *ratelimit.Limiter
	store   kvstore.Store
}

// NewHandler creates the API handler.
func NewHandler(engine *recommend.Engine, limiter *ratelimit.Limiter, store kvstore.Store) *Handler {
	return &Handler{engine: engine, limiter: limiter, store: store}
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req recommend.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, CodeInvalidInput, "request body is not valid JSON", 0)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidInput, verr.Error(), 0)
		return
	}

	identity, mode := Identity(r)
	decision, err := h.limiter.Admit(r.Context(), identity, mode)
	if err != nil {
		// Fail-closed store outage. The caps cannot be enforced, so the
		// request is refused rather than silently uncounted.
		logging.Ctx(r.Context()).Error().Err(err).Msg("rate limit store unavailable")
		respondError(w, http.StatusInternalServerError, CodeConfigurationMissing,
			"rate limiting is unavailable, request refused", 0)
		return
	}
	if !decision.Allowed {
		respondError(w, http.StatusTooManyRequests, CodeRateLimited,
			"request cap reached, try again later", decision.RetryAfter)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestBudget)
	defer cancel()

	resp := h.engine.Recommend(ctx, req)
	respondJSON(w, http.StatusOK, resp)
}

// Live handles GET /api/v1/health/live. Always healthy while the process
// can serve requests.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /api/v1/health/ready. Readiness requires a reachable
// counter store, since rate limiting fails closed in production.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	_, err := h.store.Get(r.Context(), "healthcheck:probe")
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		respondError(w, http.StatusServiceUnavailable, CodeConfigurationMissing,
			"counter store unavailable", 0)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
