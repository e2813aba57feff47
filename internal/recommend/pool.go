// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

// Pool limits.
const (
	poolCategoryCap = 6
	poolMaxSize     = 60
)

// DiversifyPool caps per-category representation in the score-sorted swap
// pool, then truncates to the overall maximum. Score order is preserved so
// the pool stays usable for highest-first substitution.
func DiversifyPool(pool []Option) []Option {
	catCount := make(map[Category]int)
	out := make([]Option, 0, min(len(pool), poolMaxSize))

	for _, o := range pool {
		if catCount[o.Category] >= poolCategoryCap {
			continue
		}
		catCount[o.Category]++
		out = append(out, o)
		if len(out) >= poolMaxSize {
			break
		}
	}

	return out
}
