// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"time"

	"github.com/venuescout/venuescout/internal/weather"
)

// Vibe is a mood category that gates which venue categories are eligible.
type Vibe string

// Supported vibes.
const (
	VibeCozy       Vibe = "Cozy"
	VibeSocial     Vibe = "Social"
	VibeRomantic   Vibe = "Romantic"
	VibeProductive Vibe = "Productive"
	VibeOutdoorsy  Vibe = "Outdoorsy"
	VibeCultural   Vibe = "Cultural"
)

// DefaultVibe is used when the caller supplies an unrecognized vibe.
const DefaultVibe = VibeCozy

// Category is the internally resolved venue category. Every Option's
// category is a member of the allowed set for the active vibe.
type Category string

// Venue categories.
const (
	CatCafe          Category = "Cafe"
	CatTeaHouse      Category = "Tea House"
	CatDessert       Category = "Dessert"
	CatBookstore     Category = "Bookstore"
	CatBar           Category = "Bar"
	CatWineBar       Category = "Wine Bar"
	CatRestaurant    Category = "Restaurant"
	CatFineDining    Category = "Fine Dining"
	CatArcade        Category = "Arcade"
	CatCoworking     Category = "Coworking Space"
	CatLibrary       Category = "Library"
	CatPark          Category = "Park"
	CatGarden        Category = "Garden"
	CatScenicLookout Category = "Scenic Lookout"
	CatMarket        Category = "Market"
	CatMuseum        Category = "Museum"
	CatGallery       Category = "Gallery"
	CatTheater       Category = "Theater"
)

// Companion is the "with who" context supplied by the caller.
type Companion string

// Supported companions.
const (
	CompanionSolo    Companion = "Solo"
	CompanionDate    Companion = "Date"
	CompanionFriends Companion = "Friends"
	CompanionFamily  Companion = "Family"
)

// DefaultCompanion is used when the caller supplies an unrecognized value.
const DefaultCompanion = CompanionFriends

// maxFreshnessIDs caps the caller-supplied seen/swapped sets.
const maxFreshnessIDs = 220

// Request is the caller's loosely-specified intent.
type Request struct {
	City        string   `json:"city" validate:"required,max=80"`
	Vibe        string   `json:"vibe" validate:"required,max=40"`
	WithWho     string   `json:"withWho" validate:"max=40"`
	VegFriendly bool     `json:"vegFriendly"`
	SeenIDs     []string `json:"seenIds" validate:"max=220,dive,max=256"`
	SwappedIDs  []string `json:"swappedIds" validate:"max=220,dive,max=256"`
}

// FreshnessSets are the caller-supplied exclusion/penalty sets. "Swapped"
// identifiers are hard-excluded from the pool and strongly penalized;
// "seen" identifiers only receive a soft novelty penalty.
type FreshnessSets struct {
	Seen    map[string]struct{}
	Swapped map[string]struct{}
}

// NewFreshnessSets builds the lookup sets from the request slices, honoring
// the size cap.
func NewFreshnessSets(seen, swapped []string) FreshnessSets {
	fs := FreshnessSets{
		Seen:    make(map[string]struct{}, len(seen)),
		Swapped: make(map[string]struct{}, len(swapped)),
	}
	for i, id := range seen {
		if i >= maxFreshnessIDs {
			break
		}
		fs.Seen[id] = struct{}{}
	}
	for i, id := range swapped {
		if i >= maxFreshnessIDs {
			break
		}
		fs.Swapped[id] = struct{}{}
	}
	return fs
}

// Option is the request-scoped, caller-facing entity assembled from a
// details record. The score is ephemeral and stripped before output.
type Option struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"ratingCount,omitempty"`
	PriceLevel  *int     `json:"priceLevel,omitempty"`
	Address     string   `json:"address,omitempty"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	DistanceKm  float64  `json:"distanceKm"`

	// OpenStatus is the human open-state string: "open", "closed", "unknown".
	OpenStatus string `json:"openStatus"`

	// ClosingTime is the wall-clock closing label, e.g. "23:30".
	ClosingTime string `json:"closingTime,omitempty"`

	// CloseTS is the absolute closing instant, preferred over the label
	// when both are present.
	CloseTS *time.Time `json:"closeTs,omitempty"`

	PhotoRefs []string `json:"photoRefs,omitempty"`

	Why       string `json:"why"`
	Watchouts string `json:"watchouts"`

	// Score is ephemeral and never serialized.
	Score float64 `json:"-"`

	// poolOnly marks options sourced solely from a fallback-vibe battery.
	// They restock the swap pool and never enter the primary shortlist.
	poolOnly bool
}

// RemainingOpen returns minutes until closing relative to now, and whether
// a closing instant is known at all.
func (o *Option) RemainingOpen(now time.Time) (minutes float64, known bool) {
	if o.CloseTS == nil {
		return 0, false
	}
	return o.CloseTS.Sub(now).Minutes(), true
}

// Meta carries the response metadata and backup pool.
type Meta struct {
	LimitedAvailability bool     `json:"limitedAvailability"`
	Reason              *string  `json:"reason"`
	Pool                []Option `json:"pool"`
}

// Response is the full recommendation result.
type Response struct {
	Options []Option        `json:"options"`
	Weather weather.Summary `json:"weather"`
	Meta    Meta            `json:"meta"`
}

// ParseVibe resolves a caller-supplied vibe string, falling back to
// DefaultVibe for unrecognized values.
func ParseVibe(s string) Vibe {
	for v := range vibeCategories {
		if string(v) == s {
			return v
		}
	}
	return DefaultVibe
}

// ParseCompanion resolves a caller-supplied companion string, falling back
// to DefaultCompanion.
func ParseCompanion(s string) Companion {
	switch Companion(s) {
	case CompanionSolo, CompanionDate, CompanionFriends, CompanionFamily:
		return Companion(s)
	default:
		return DefaultCompanion
	}
}
