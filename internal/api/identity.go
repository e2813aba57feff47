// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package api

import (
	"fmt"
	"hash/fnv"
	"net"
	"net/http"
	"strings"

	"github.com/venuescout/venuescout/internal/ratelimit"
)

// accountHeader carries the stable account identifier set by the
// authenticating proxy. Token verification happens upstream; this service
// only consumes the resulting identity.
const accountHeader = "X-Account-ID"

// Identity derives the rate-limit identity for a request.
//
// Authenticated requests are keyed by account ID so the cap follows the
// account across devices. Guests are keyed by a stable non-cryptographic
// hash of client IP and user agent, which survives across requests from the
// same browser without storing anything identifiable.
func Identity(r *http.Request) (string, ratelimit.Mode) {
	if account := strings.TrimSpace(r.Header.Get(accountHeader)); account != "" {
		return "acct:" + account, ratelimit.ModeAuthenticated
	}

	ip := clientIP(r)
	h := fnv.New64a()
	_, _ = h.Write([]byte(ip))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(r.UserAgent()))
	return fmt.Sprintf("guest:%x", h.Sum64()), ratelimit.ModeGuest
}

// clientIP returns the remote address with the port stripped. chi's RealIP
// middleware has already rewritten RemoteAddr from proxy headers.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
