// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package api provides HTTP routing and handlers for VenueScout.
package api

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Error codes form the request-level failure taxonomy. Per-candidate and
// per-lane failures never reach the caller: they degrade to fewer
// candidates inside the engine.
const (
	CodeConfigurationMissing = "CONFIGURATION_MISSING"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// errorBody is the JSON error envelope. Every failure carries a
// human-readable message.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RetryAfter int `json:"retryAfter,omitempty"`
}

// respondError writes the error envelope with the given status.
func respondError(w http.ResponseWriter, status int, code, message string, retryAfter int) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	body.RetryAfter = retryAfter

	w.Header().Set("Content-Type", "application/json")
	if retryAfter > 0 {
		w.Header().Set("Retry-After", itoa(retryAfter))
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondJSON writes a success payload.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [12]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
