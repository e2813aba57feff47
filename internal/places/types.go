// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

// Package places consumes the third-party place-search provider: geocoded
// candidate search plus structured per-place detail records.
package places

// Candidate is a lightweight search hit: enough to dedupe and distance-sort
// before deciding whether to spend a detail fetch on it.
type Candidate struct {
	PlaceID string  `json:"placeId"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Business status values reported by the provider.
const (
	StatusOperational       = "OPERATIONAL"
	StatusClosedTemporarily = "CLOSED_TEMPORARILY"
	StatusClosedPermanently = "CLOSED_PERMANENTLY"
)

// OpeningPoint is one endpoint of a weekly opening period.
type OpeningPoint struct {
	// Day is the provider's weekday index, 0 = Sunday.
	Day int `json:"day"`

	// Time is wall-clock "HHMM", e.g. "2330".
	Time string `json:"time"`
}

// OpeningPeriod is one open..close span in the weekly schedule. Close is nil
// for venues the provider reports as always open.
type OpeningPeriod struct {
	Open  OpeningPoint  `json:"open"`
	Close *OpeningPoint `json:"close,omitempty"`
}

// DetailRecord is the structured details payload for one place. Nullable
// provider fields stay pointers so "absent" and "zero" remain distinct.
type DetailRecord struct {
	PlaceID     string   `json:"placeId"`
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"ratingCount,omitempty"`
	PriceLevel  *int     `json:"priceLevel,omitempty"`
	Types       []string `json:"types,omitempty"`

	// OpenNow is tri-state: true, false, or unknown (nil).
	OpenNow *bool `json:"openNow,omitempty"`

	BusinessStatus string  `json:"businessStatus,omitempty"`
	Address        string  `json:"address,omitempty"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`

	Periods []OpeningPeriod `json:"periods,omitempty"`

	// UTCOffsetMinutes is the venue's timezone offset as reported by the
	// provider, when present.
	UTCOffsetMinutes *int `json:"utcOffsetMinutes,omitempty"`

	PhotoRefs []string `json:"photoRefs,omitempty"`
}

// PermanentlyClosed reports whether the provider marks the place gone for
// good. Temporarily closed places are also dropped: they cannot be visited
// tonight either.
func (d *DetailRecord) PermanentlyClosed() bool {
	return d.BusinessStatus == StatusClosedPermanently || d.BusinessStatus == StatusClosedTemporarily
}
