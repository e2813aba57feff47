// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

// Fixed lookup tables gating vibes, categories, and lane queries. All maps
// here are constructed once at init and treated as immutable; nothing may
// mutate them after process start.

// vibeCategories is the allowed-category set per vibe, in priority order.
// The first entry doubles as the mapping fallback category.
var vibeCategories = map[Vibe][]Category{
	VibeCozy:       {CatCafe, CatTeaHouse, CatDessert, CatBookstore},
	VibeSocial:     {CatBar, CatRestaurant, CatArcade, CatCafe},
	VibeRomantic:   {CatFineDining, CatWineBar, CatDessert, CatScenicLookout},
	VibeProductive: {CatCafe, CatCoworking, CatLibrary},
	VibeOutdoorsy:  {CatPark, CatGarden, CatScenicLookout, CatMarket},
	VibeCultural:   {CatMuseum, CatGallery, CatBookstore, CatTheater},
}

// AllowedCategories returns the allowed category list for the vibe.
func AllowedCategories(v Vibe) []Category {
	return vibeCategories[v]
}

// categoryKeywords maps each category to its keyword-lane query text.
var categoryKeywords = map[Category]string{
	CatCafe:          "cafe",
	CatTeaHouse:      "tea house",
	CatDessert:       "dessert shop",
	CatBookstore:     "bookstore",
	CatBar:           "bar",
	CatWineBar:       "wine bar",
	CatRestaurant:    "restaurant",
	CatFineDining:    "fine dining restaurant",
	CatArcade:        "arcade bar",
	CatCoworking:     "coworking space",
	CatLibrary:       "library",
	CatPark:          "park",
	CatGarden:        "botanical garden",
	CatScenicLookout: "scenic viewpoint",
	CatMarket:        "street market",
	CatMuseum:        "museum",
	CatGallery:       "art gallery",
	CatTheater:       "theater",
}

// vibeHints is the one generic keyword lane added per vibe.
var vibeHints = map[Vibe]string{
	VibeCozy:       "cozy spot",
	VibeSocial:     "fun hangout",
	VibeRomantic:   "romantic evening spot",
	VibeProductive: "quiet place to work",
	VibeOutdoorsy:  "outdoor attraction",
	VibeCultural:   "cultural attraction",
}

// vibeTextLanes lists free-text semantic queries per vibe. These cover
// intent that category keywords under-recall: "Productive" venues in
// particular barely surface through category search alone.
var vibeTextLanes = map[Vibe][]string{
	VibeCozy:       {"cozy cafe with armchairs", "quiet tea room"},
	VibeSocial:     {"lively bar with games", "board game cafe"},
	VibeRomantic:   {"candlelit restaurant", "intimate wine bar"},
	VibeProductive: {"coworking", "quiet cafe", "wifi cafe"},
	VibeOutdoorsy:  {"botanical garden", "city viewpoint walk"},
	VibeCultural:   {"independent art gallery", "small museum"},
}

// fallbackVibes is the ordered relaxation ladder per primary vibe. The
// fallback battery feeds only the swap pool, never the primary shortlist,
// and at most two fallbacks run.
var fallbackVibes = map[Vibe][]Vibe{
	VibeCozy:       {VibeCultural, VibeSocial},
	VibeSocial:     {VibeCozy, VibeRomantic},
	VibeRomantic:   {VibeCozy, VibeCultural},
	VibeProductive: {VibeCozy, VibeSocial},
	VibeOutdoorsy:  {VibeCultural, VibeSocial},
	VibeCultural:   {VibeCozy, VibeSocial},
}

// foodCategories marks categories eligible for vegetarian-qualified lane
// variants and the veg-friendly scoring bonus.
var foodCategories = map[Category]struct{}{
	CatCafe:       {},
	CatTeaHouse:   {},
	CatDessert:    {},
	CatRestaurant: {},
	CatFineDining: {},
}

// outdoorCategories marks outdoor-leaning categories for weather gating.
var outdoorCategories = map[Category]struct{}{
	CatPark:          {},
	CatGarden:        {},
	CatScenicLookout: {},
	CatMarket:        {},
}

// IsFoodCategory reports whether c serves food.
func IsFoodCategory(c Category) bool {
	_, ok := foodCategories[c]
	return ok
}

// IsOutdoorCategory reports whether c is outdoor-leaning.
func IsOutdoorCategory(c Category) bool {
	_, ok := outdoorCategories[c]
	return ok
}
