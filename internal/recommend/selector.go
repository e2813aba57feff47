// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"math"
	"math/rand"
	"sync"
)

// Selection parameters.
const (
	shortlistSize   = 5
	shortlistCatCap = 2
)

// Selector picks the shortlist from the strict-feasible pool via iterated
// weighted sampling without replacement. Scores become Boltzmann weights
// exp(score/temperature); a non-positive temperature degenerates to greedy
// highest-score-first picking, which tests rely on for determinism.
type Selector struct {
	mu          sync.Mutex
	rng         *rand.Rand
	temperature float64
}

// NewSelector creates a selector with the given seed and temperature.
func NewSelector(seed int64, temperature float64) *Selector {
	return &Selector{
		rng:         rand.New(rand.NewSource(seed)), //nolint:gosec // sampling, not security
		temperature: temperature,
	}
}

// Pick selects up to shortlistSize options from the score-sorted pool.
// Each draw samples proportionally to weight among candidates whose
// category is below the per-category cap; if every remaining candidate is
// capped, the full remaining set becomes eligible. Fewer than five picks is
// a valid outcome, not an error.
func (s *Selector) Pick(pool []Option) []Option {
	remaining := make([]Option, len(pool))
	copy(remaining, pool)

	picked := make([]Option, 0, shortlistSize)
	catCount := make(map[Category]int)

	for len(picked) < shortlistSize && len(remaining) > 0 {
		eligible := make([]int, 0, len(remaining))
		for i, o := range remaining {
			if catCount[o.Category] < shortlistCatCap {
				eligible = append(eligible, i)
			}
		}
		if len(eligible) == 0 {
			for i := range remaining {
				eligible = append(eligible, i)
			}
		}

		idx := s.sample(remaining, eligible)
		o := remaining[idx]
		picked = append(picked, o)
		catCount[o.Category]++
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return s.diversityPostCheck(picked, remaining)
}

// sample draws one index from eligible, proportional to Boltzmann weight.
func (s *Selector) sample(pool []Option, eligible []int) int {
	if s.temperature <= 0 {
		// Greedy: highest score wins deterministically.
		best := eligible[0]
		for _, i := range eligible[1:] {
			if pool[i].Score > pool[best].Score {
				best = i
			}
		}
		return best
	}

	// Shift by the max score so the exponentials stay finite.
	maxScore := pool[eligible[0]].Score
	for _, i := range eligible[1:] {
		if pool[i].Score > maxScore {
			maxScore = pool[i].Score
		}
	}

	weights := make([]float64, len(eligible))
	var total float64
	for k, i := range eligible {
		w := math.Exp((pool[i].Score - maxScore) / s.temperature)
		weights[k] = w
		total += w
	}

	s.mu.Lock()
	r := s.rng.Float64() * total
	s.mu.Unlock()

	for k, w := range weights {
		r -= w
		if r <= 0 {
			return eligible[k]
		}
	}
	return eligible[len(eligible)-1]
}

// diversityPostCheck swaps the last pick for the highest-ranked candidate
// of a different category when all five picks collapsed into one category.
func (s *Selector) diversityPostCheck(picked, remaining []Option) []Option {
	if len(picked) < shortlistSize {
		return picked
	}

	first := picked[0].Category
	for _, o := range picked[1:] {
		if o.Category != first {
			return picked
		}
	}

	for _, o := range remaining {
		if o.Category != first {
			picked[len(picked)-1] = o
			return picked
		}
	}
	return picked
}

// swapRelaxationTiers is the substitution ladder: prefer keeping at most 2
// of a category in play, then 3, then give up on diversity entirely. The
// three-tier order is user-visible substitution behavior and must not be
// tightened or loosened.
var swapRelaxationTiers = []int{2, 3, math.MaxInt}

// NextSwap is the reference implementation of the client-side substitution
// contract. Swapping happens entirely in the client against the returned
// pool, without a new request; this function pins down the exact selection
// rule clients must apply so server and client agree on the ladder
// semantics, and the tests here are its executable contract.
//
// It picks the highest-scored option from the score-sorted pool that is not
// excluded and not overrepresented among the categories currently in play,
// relaxing the per-category cap tier by tier when supply runs short.
// Returns nil when the pool is exhausted.
func NextSwap(pool []Option, exclude map[string]struct{}, inPlay map[Category]int) *Option {
	for _, tierCap := range swapRelaxationTiers {
		for i := range pool {
			o := &pool[i]
			if _, skip := exclude[o.ID]; skip {
				continue
			}
			if inPlay[o.Category] >= tierCap {
				continue
			}
			return o
		}
	}
	return nil
}
