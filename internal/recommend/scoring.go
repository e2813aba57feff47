// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/venuescout/venuescout/internal/weather"
)

// Scoring weights and defaults.
const (
	defaultRating  = 4.2
	ratingWeight   = 10
	countWeight    = 6
	swappedPenalty = -80 // explicitly rejected before: strong avoidance
	seenPenalty    = -35 // soft novelty penalty
	vegBonus       = 3
	defaultJitter  = 1.3
)

// substrRule awards points when the category name contains sub. Rules are
// evaluated top-down, first match wins.
type substrRule struct {
	sub string
	pts float64
}

// vibeAffinity awards points for category fit within the active vibe.
var vibeAffinity = map[Vibe][]substrRule{
	VibeCozy:       {{"tea", 8}, {"cafe", 8}, {"dessert", 6}, {"book", 5}},
	VibeSocial:     {{"arcade", 7}, {"bar", 8}, {"restaurant", 5}, {"cafe", 3}},
	VibeRomantic:   {{"fine dining", 8}, {"wine", 8}, {"dessert", 5}, {"lookout", 4}},
	VibeProductive: {{"coworking", 9}, {"library", 7}, {"cafe", 6}},
	VibeOutdoorsy:  {{"park", 8}, {"garden", 7}, {"lookout", 6}, {"market", 5}},
	VibeCultural:   {{"museum", 8}, {"gallery", 7}, {"theater", 6}, {"book", 5}},
}

// companionAffinity leans scoring toward venues that suit the party: solo
// visits favor quiet work-friendly spots, dates favor intimate venues,
// groups favor social ones, families favor daytime-friendly outings.
var companionAffinity = map[Companion][]substrRule{
	CompanionSolo:    {{"library", 5}, {"coworking", 4}, {"book", 4}, {"cafe", 3}},
	CompanionDate:    {{"wine", 6}, {"fine dining", 6}, {"dessert", 4}, {"lookout", 4}},
	CompanionFriends: {{"bar", 5}, {"arcade", 5}, {"restaurant", 3}, {"market", 2}},
	CompanionFamily:  {{"park", 5}, {"market", 4}, {"museum", 3}, {"arcade", 3}},
}

// timeBucket is a coarse local-hour band for time-of-day affinity.
type timeBucket string

const (
	bucketMorning   timeBucket = "morning"
	bucketAfternoon timeBucket = "afternoon"
	bucketEvening   timeBucket = "evening"
	bucketLate      timeBucket = "late"
)

// bucketFor maps a local hour to its band.
func bucketFor(hour int) timeBucket {
	switch {
	case hour >= 5 && hour < 11:
		return bucketMorning
	case hour >= 11 && hour < 17:
		return bucketAfternoon
	case hour >= 17 && hour < 22:
		return bucketEvening
	default:
		return bucketLate
	}
}

// timeOfDayAffinity adjusts for the local hour: mornings favor cafés and
// study spots, evenings favor bars and fine dining while parks and
// libraries fade.
var timeOfDayAffinity = map[timeBucket][]substrRule{
	bucketMorning: {
		{"cafe", 6}, {"coworking", 5}, {"library", 4}, {"tea", 4},
		{"bar", -6}, {"fine dining", -4},
	},
	bucketAfternoon: {
		{"park", 3}, {"market", 3}, {"museum", 3}, {"gallery", 2}, {"cafe", 2},
	},
	bucketEvening: {
		{"fine dining", 5}, {"bar", 5}, {"wine", 4}, {"theater", 3},
		{"library", -6}, {"park", -4}, {"coworking", -3},
	},
	bucketLate: {
		{"bar", 6}, {"dessert", 2},
		{"library", -8}, {"coworking", -6}, {"park", -6}, {"museum", -4}, {"garden", -5},
	},
}

// firstMatch returns the points of the first rule whose substring occurs in
// the lowercased category name.
func firstMatch(rules []substrRule, cat Category) float64 {
	name := strings.ToLower(string(cat))
	for _, r := range rules {
		if strings.Contains(name, r.sub) {
			return r.pts
		}
	}
	return 0
}

// weatherAffinity rewards outdoor categories in good weather and penalizes
// them in bad, with the inverse lean for sheltered categories.
func weatherAffinity(flags weather.Flags, cat Category) float64 {
	outdoor := IsOutdoorCategory(cat)

	if outdoor {
		switch {
		case flags.Bad():
			return -12
		case flags.Cold || flags.Windy:
			return -6
		default:
			return 4
		}
	}

	if flags.Bad() || flags.Cold {
		// Bad weather nudges sheltered venues up.
		return 2
	}
	return 0
}

// Scorer converts feasible candidates into desirability scores. The random
// source is injectable so tests can disable jitter entirely.
type Scorer struct {
	mu        sync.Mutex
	rng       *rand.Rand
	jitterAmp float64
}

// NewScorer creates a scorer with the given seed. A zero jitter amplitude
// makes scoring fully deterministic.
func NewScorer(seed int64, jitterAmp float64) *Scorer {
	return &Scorer{
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // selection jitter, not security
		jitterAmp: jitterAmp,
	}
}

// Score computes the desirability of one option. It is computed once per
// candidate and reused by both the strict and relaxed filtering passes.
func (s *Scorer) Score(o *Option, vibe Vibe, companion Companion, localHour int, flags weather.Flags, fresh FreshnessSets, vegFriendly bool) float64 {
	rating := defaultRating
	if o.Rating != nil {
		rating = *o.Rating
	}

	count := 0
	if o.RatingCount != nil {
		count = *o.RatingCount
	}

	score := ratingWeight*rating + countWeight*math.Log10(float64(count)+1)
	score += firstMatch(vibeAffinity[vibe], o.Category)
	score += firstMatch(companionAffinity[companion], o.Category)
	score += firstMatch(timeOfDayAffinity[bucketFor(localHour)], o.Category)
	score += weatherAffinity(flags, o.Category)

	if _, swapped := fresh.Swapped[o.ID]; swapped {
		score += swappedPenalty
	} else if _, seen := fresh.Seen[o.ID]; seen {
		score += seenPenalty
	}

	if vegFriendly && IsFoodCategory(o.Category) {
		score += vegBonus
	}

	score += s.jitter()
	return score
}

// jitter returns a small symmetric perturbation so repeated identical
// requests don't produce byte-identical result sets.
func (s *Scorer) jitter() float64 {
	if s.jitterAmp == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return (s.rng.Float64()*2 - 1) * s.jitterAmp
}
