// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"strings"
	"time"
)

// City is a supported search center with its timezone.
type City struct {
	Name     string
	Lat      float64
	Lng      float64
	Timezone string
}

// cities is the fixed city registry. Lookup is case-insensitive by name.
var cities = map[string]City{
	"berlin":        {Name: "Berlin", Lat: 52.5200, Lng: 13.4050, Timezone: "Europe/Berlin"},
	"london":        {Name: "London", Lat: 51.5074, Lng: -0.1278, Timezone: "Europe/London"},
	"paris":         {Name: "Paris", Lat: 48.8566, Lng: 2.3522, Timezone: "Europe/Paris"},
	"amsterdam":     {Name: "Amsterdam", Lat: 52.3676, Lng: 4.9041, Timezone: "Europe/Amsterdam"},
	"new york":      {Name: "New York", Lat: 40.7128, Lng: -74.0060, Timezone: "America/New_York"},
	"san francisco": {Name: "San Francisco", Lat: 37.7749, Lng: -122.4194, Timezone: "America/Los_Angeles"},
	"tokyo":         {Name: "Tokyo", Lat: 35.6762, Lng: 139.6503, Timezone: "Asia/Tokyo"},
	"lisbon":        {Name: "Lisbon", Lat: 38.7223, Lng: -9.1393, Timezone: "Europe/Lisbon"},
}

// defaultCityKey is used for unrecognized city names.
const defaultCityKey = "berlin"

// ResolveCity looks up a city by name, falling back to the default city.
func ResolveCity(name string) City {
	if c, ok := cities[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return cities[defaultCityKey]
}

// Location returns the city's *time.Location, falling back to UTC if the
// zone database lacks the entry.
func (c City) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TZOffsetSeconds returns the city's UTC offset at t. It participates in
// details cache keys because remaining-open-minutes depends on local time.
func (c City) TZOffsetSeconds(t time.Time) int {
	_, offset := t.In(c.Location()).Zone()
	return offset
}
