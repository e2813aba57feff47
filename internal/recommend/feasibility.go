// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"time"

	"github.com/venuescout/venuescout/internal/weather"
)

// RejectReason explains why an option failed a feasibility profile. The most
// frequent reason among filtered-out candidates feeds the response's
// limited-availability explanation.
type RejectReason string

// Rejection reasons, in evaluation order.
const (
	RejectCategoryBlocked RejectReason = "category_blocked"
	RejectTooFar          RejectReason = "too_far"
	RejectClosed          RejectReason = "closed"
	RejectClosingSoon     RejectReason = "closing_soon"
	RejectUnknownHours    RejectReason = "unknown_hours"
	RejectWeatherBlock    RejectReason = "weather_block"
)

// Profile is a feasibility policy: strict gates the shortlist, relaxed
// gates the swap pool.
type Profile struct {
	Name string

	// MaxDistanceKm is the straight-line cap from the search center.
	MaxDistanceKm float64

	// MinRemaining is the minimum remaining-open time when known.
	MinRemaining time.Duration

	// AllowUnknownHours admits options with no known closing instant.
	AllowUnknownHours bool

	// RequireOpenNow demands provider-confirmed open state ("open", not
	// "unknown") and a known closing instant.
	RequireOpenNow bool
}

// StrictProfile gates the primary shortlist.
var StrictProfile = Profile{
	Name:              "strict",
	MaxDistanceKm:     10,
	MinRemaining:      75 * time.Minute,
	AllowUnknownHours: false,
	RequireOpenNow:    true,
}

// RelaxedProfile gates the swap pool.
var RelaxedProfile = Profile{
	Name:              "relaxed",
	MaxDistanceKm:     14,
	MinRemaining:      45 * time.Minute,
	AllowUnknownHours: true,
	RequireOpenNow:    false,
}

// eveningHour is the local hour from which merely-cold weather starts
// blocking outdoor venues.
const eveningHour = 18

// Feasible evaluates the option against the profile. Checks run in a fixed
// order and the first failing check names the rejection reason.
func Feasible(o *Option, p Profile, vibe Vibe, flags weather.Flags, now time.Time, localHour int) (bool, RejectReason) {
	if !categoryAllowed(o.Category, vibeCategories[vibe]) {
		return false, RejectCategoryBlocked
	}

	if o.DistanceKm > p.MaxDistanceKm {
		return false, RejectTooFar
	}

	if o.OpenStatus == "closed" {
		return false, RejectClosed
	}

	remaining, known := o.RemainingOpen(now)
	if known && remaining < p.MinRemaining.Minutes() {
		return false, RejectClosingSoon
	}
	if !known && !p.AllowUnknownHours {
		return false, RejectUnknownHours
	}
	if p.RequireOpenNow && (o.OpenStatus != "open" || !known) {
		return false, RejectUnknownHours
	}

	if IsOutdoorCategory(o.Category) {
		if flags.Bad() {
			return false, RejectWeatherBlock
		}
		if flags.Cold && localHour >= eveningHour {
			return false, RejectWeatherBlock
		}
	}

	return true, ""
}
