// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

import (
	"testing"
)

func scored(id string, cat Category, score float64) Option {
	return Option{ID: id, Category: cat, Score: score}
}

func TestPickRespectsCategoryCap(t *testing.T) {
	// Three categories with plentiful supply: no category may exceed two
	// picks in the shortlist.
	pool := []Option{
		scored("c1", CatCafe, 100),
		scored("c2", CatCafe, 99),
		scored("c3", CatCafe, 98),
		scored("t1", CatTeaHouse, 97),
		scored("t2", CatTeaHouse, 96),
		scored("d1", CatDessert, 95),
		scored("d2", CatDessert, 94),
	}

	s := NewSelector(7, 18)
	picked := s.Pick(pool)

	if len(picked) != 5 {
		t.Fatalf("picked %d options, want 5", len(picked))
	}
	counts := make(map[Category]int)
	for _, o := range picked {
		counts[o.Category]++
	}
	for cat, n := range counts {
		if n > shortlistCatCap {
			t.Errorf("category %s picked %d times, cap is %d", cat, n, shortlistCatCap)
		}
	}
}

func TestPickGreedyDeterministic(t *testing.T) {
	pool := []Option{
		scored("a", CatCafe, 90),
		scored("b", CatCafe, 80),
		scored("c", CatTeaHouse, 70),
		scored("d", CatDessert, 60),
		scored("e", CatBookstore, 50),
		scored("f", CatCafe, 40),
	}

	// Non-positive temperature degenerates to greedy highest-first.
	s := NewSelector(1, 0)
	picked := s.Pick(pool)

	want := []string{"a", "b", "c", "d", "e"}
	if len(picked) != len(want) {
		t.Fatalf("picked %d options, want %d", len(picked), len(want))
	}
	for i, id := range want {
		if picked[i].ID != id {
			t.Errorf("picked[%d] = %s, want %s", i, picked[i].ID, id)
		}
	}
}

func TestPickCapRelaxesWhenSupplyIsThin(t *testing.T) {
	// Only one category available: the cap yields fewer picks at first, then
	// the full remaining set becomes eligible so five still come back.
	pool := []Option{
		scored("a", CatCafe, 90),
		scored("b", CatCafe, 80),
		scored("c", CatCafe, 70),
		scored("d", CatCafe, 60),
		scored("e", CatCafe, 50),
		scored("f", CatCafe, 40),
	}

	s := NewSelector(1, 0)
	picked := s.Pick(pool)
	if len(picked) != 5 {
		t.Errorf("picked %d options, want 5 even from a single-category pool", len(picked))
	}
}

func TestPickFewerThanFiveIsValid(t *testing.T) {
	pool := []Option{
		scored("a", CatCafe, 90),
		scored("b", CatTeaHouse, 80),
	}
	s := NewSelector(1, 18)
	picked := s.Pick(pool)
	if len(picked) != 2 {
		t.Errorf("picked %d options, want 2", len(picked))
	}
}

func TestPickEmptyPool(t *testing.T) {
	s := NewSelector(1, 18)
	if picked := s.Pick(nil); len(picked) != 0 {
		t.Errorf("picked %d options from empty pool, want 0", len(picked))
	}
}

func TestDiversityPostCheckBreaksMonoculture(t *testing.T) {
	// Five same-category picks with a different category left in the
	// remainder: the last pick is swapped out.
	pool := []Option{
		scored("a", CatCafe, 90),
		scored("b", CatCafe, 89),
		scored("c", CatCafe, 88),
		scored("d", CatCafe, 87),
		scored("e", CatCafe, 86),
		scored("t", CatTeaHouse, 10),
	}

	s := NewSelector(1, 0)
	picked := s.Pick(pool)
	if len(picked) != 5 {
		t.Fatalf("picked %d options, want 5", len(picked))
	}

	cats := make(map[Category]bool)
	for _, o := range picked {
		cats[o.Category] = true
	}
	if len(cats) < 2 {
		t.Errorf("shortlist collapsed to one category with an alternative available: %v", picked)
	}
}

func TestNextSwapRelaxationLadder(t *testing.T) {
	pool := []Option{
		scored("a", CatCafe, 90),
		scored("b", CatCafe, 80),
		scored("c", CatTeaHouse, 70),
	}

	tests := []struct {
		name    string
		exclude map[string]struct{}
		inPlay  map[Category]int
		wantID  string
		wantNil bool
	}{
		{
			name:   "highest score wins under the base cap",
			inPlay: map[Category]int{},
			wantID: "a",
		},
		{
			name:   "base cap diverts to next category",
			inPlay: map[Category]int{CatCafe: 2},
			wantID: "c",
		},
		{
			name:    "second tier admits a third of a category",
			exclude: map[string]struct{}{"c": {}},
			inPlay:  map[Category]int{CatCafe: 2},
			wantID:  "a",
		},
		{
			name:    "final tier ignores category caps entirely",
			exclude: map[string]struct{}{"c": {}},
			inPlay:  map[Category]int{CatCafe: 3},
			wantID:  "a",
		},
		{
			name:    "exclusion is absolute across all tiers",
			exclude: map[string]struct{}{"a": {}, "b": {}, "c": {}},
			inPlay:  map[Category]int{},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSwap(pool, tt.exclude, tt.inPlay)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("NextSwap = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("NextSwap = nil, want an option")
			}
			if got.ID != tt.wantID {
				t.Errorf("NextSwap = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}
