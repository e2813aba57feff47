// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package middleware provides HTTP middleware shared across routes.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/venuescout/venuescout/internal/logging"
)

// RequestID attaches a unique ID to each request: honored from upstream
// proxies via X-Request-ID, otherwise generated. The ID flows into the
// response header and the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
