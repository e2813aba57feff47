// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"testing"
	"time"
)

func TestResolveCity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Berlin", "Berlin"},
		{"berlin", "Berlin"},
		{"  LONDON  ", "London"},
		{"new york", "New York"},
		{"Atlantis", "Berlin"}, // unknown falls back to the default
		{"", "Berlin"},
	}
	for _, tt := range tests {
		if got := ResolveCity(tt.in); got.Name != tt.want {
			t.Errorf("ResolveCity(%q) = %s, want %s", tt.in, got.Name, tt.want)
		}
	}
}

func TestTZOffsetSeconds(t *testing.T) {
	// Tokyo has no DST: the offset is +9h year-round.
	tokyo := ResolveCity("Tokyo")
	winter := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)
	if got := tokyo.TZOffsetSeconds(winter); got != 9*3600 {
		t.Errorf("Tokyo winter offset = %d, want %d", got, 9*3600)
	}
	if got := tokyo.TZOffsetSeconds(summer); got != 9*3600 {
		t.Errorf("Tokyo summer offset = %d, want %d", got, 9*3600)
	}

	// Berlin shifts between CET and CEST.
	berlin := ResolveCity("Berlin")
	if w, s := berlin.TZOffsetSeconds(winter), berlin.TZOffsetSeconds(summer); w == s {
		t.Errorf("Berlin winter and summer offsets both %d, want a DST shift", w)
	}
}

func TestParseVibe(t *testing.T) {
	if got := ParseVibe("Outdoorsy"); got != VibeOutdoorsy {
		t.Errorf("ParseVibe(Outdoorsy) = %s", got)
	}
	if got := ParseVibe("something else"); got != DefaultVibe {
		t.Errorf("ParseVibe fallback = %s, want %s", got, DefaultVibe)
	}
}

func TestParseCompanion(t *testing.T) {
	if got := ParseCompanion("Date"); got != CompanionDate {
		t.Errorf("ParseCompanion(Date) = %s", got)
	}
	if got := ParseCompanion(""); got != DefaultCompanion {
		t.Errorf("ParseCompanion fallback = %s, want %s", got, DefaultCompanion)
	}
}
