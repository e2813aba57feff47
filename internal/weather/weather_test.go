// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package weather

import "testing"

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		temps     []float64
		precip    []float64
		wind      []float64
		codes     []int
		wantFlags Flags
		wantBad   bool
		wantCond  string
	}{
		{
			name:      "mild clear evening",
			temps:     []float64{15, 14, 13},
			precip:    []float64{5, 10, 5},
			wind:      []float64{10, 12, 8},
			codes:     []int{1, 1, 0},
			wantFlags: Flags{MinTempC: 13},
			wantBad:   false,
			wantCond:  "clear",
		},
		{
			name:      "rain probability trips precip",
			temps:     []float64{15, 14},
			precip:    []float64{10, 55},
			wind:      []float64{10, 10},
			codes:     []int{1, 1},
			wantFlags: Flags{Precip: true, MinTempC: 14},
			wantBad:   true,
			wantCond:  "precipitation",
		},
		{
			name:      "weather code trips precip without probability",
			temps:     []float64{15},
			precip:    []float64{0},
			wind:      []float64{5},
			codes:     []int{61}, // rain
			wantFlags: Flags{Precip: true, MinTempC: 15},
			wantBad:   true,
			wantCond:  "precipitation",
		},
		{
			name:      "cold but not freezing",
			temps:     []float64{9, 6, 7},
			precip:    []float64{0, 0, 0},
			wind:      []float64{5, 5, 5},
			codes:     []int{2, 2, 2},
			wantFlags: Flags{Cold: true, MinTempC: 6},
			wantBad:   false,
			wantCond:  "cold",
		},
		{
			name:      "freezing trips very cold",
			temps:     []float64{3, -2},
			precip:    []float64{0, 0},
			wind:      []float64{5, 5},
			codes:     []int{2, 2},
			wantFlags: Flags{Cold: true, VeryCold: true, MinTempC: -2},
			wantBad:   true,
			wantCond:  "freezing",
		},
		{
			name:      "windy below storm threshold",
			temps:     []float64{15},
			precip:    []float64{0},
			wind:      []float64{30},
			codes:     []int{2},
			wantFlags: Flags{Windy: true, MinTempC: 15},
			wantBad:   false,
			wantCond:  "windy",
		},
		{
			name:      "storm wind trips very windy",
			temps:     []float64{15},
			precip:    []float64{0},
			wind:      []float64{45},
			codes:     []int{2},
			wantFlags: Flags{Windy: true, VeryWindy: true, MinTempC: 15},
			wantBad:   true,
			wantCond:  "very windy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.temps, tt.precip, tt.wind, tt.codes)
			if got.Flags != tt.wantFlags {
				t.Errorf("flags = %+v, want %+v", got.Flags, tt.wantFlags)
			}
			if got.Flags.Bad() != tt.wantBad {
				t.Errorf("Bad() = %v, want %v", got.Flags.Bad(), tt.wantBad)
			}
			if got.Condition != tt.wantCond {
				t.Errorf("condition = %q, want %q", got.Condition, tt.wantCond)
			}
			if got.TempC != tt.temps[0] {
				t.Errorf("TempC = %v, want current hour %v", got.TempC, tt.temps[0])
			}
		})
	}
}

func TestIsPrecipCode(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{0, false},  // clear
		{3, false},  // overcast
		{45, false}, // fog
		{51, true},  // drizzle
		{61, true},  // rain
		{71, true},  // snow
		{95, true},  // thunderstorm
	}
	for _, tt := range tests {
		if got := isPrecipCode(tt.code); got != tt.want {
			t.Errorf("isPrecipCode(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
