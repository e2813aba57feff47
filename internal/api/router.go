// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/venuescout/venuescout/internal/config"
	"github.com/venuescout/venuescout/internal/middleware"
)

// NewRouter assembles the HTTP router. The httprate throttle is a coarse
// per-IP guard in front of the identity-aware limiter inside the handler.
func NewRouter(h *Handler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Account-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.IPRequestsPerMinute > 0 {
		r.Use(httprate.LimitByIP(cfg.IPRequestsPerMinute, time.Minute))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", h.Live)
		r.Get("/health/ready", h.Ready)
		r.Post("/recommendations", h.Recommend)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
