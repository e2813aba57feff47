// VenueScout - Venue Recommendation Engine
// Copyright 2026 VenueScout Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/venuescout/venuescout

package recommend

// tagRule maps one provider type tag to candidate categories in preference
// order. Rules are evaluated top-down; the first rule whose tag is present
// and whose candidates intersect the allowed set wins.
type tagRule struct {
	tag        string
	candidates []Category
}

// tagRules is priority-ordered: more specific tags come before generic ones
// so a "night_club"-tagged venue resolves to Bar before "establishment"
// noise can interfere.
var tagRules = []tagRule{
	{"night_club", []Category{CatBar}},
	{"wine_bar", []Category{CatWineBar, CatBar}},
	{"bar", []Category{CatBar, CatWineBar}},
	{"cafe", []Category{CatCafe, CatTeaHouse}},
	{"bakery", []Category{CatDessert, CatCafe}},
	{"ice_cream_shop", []Category{CatDessert}},
	{"restaurant", []Category{CatRestaurant, CatFineDining}},
	{"meal_takeaway", []Category{CatRestaurant}},
	{"book_store", []Category{CatBookstore}},
	{"library", []Category{CatLibrary, CatCoworking}},
	{"university", []Category{CatLibrary}},
	{"museum", []Category{CatMuseum, CatGallery}},
	{"art_gallery", []Category{CatGallery, CatMuseum}},
	{"movie_theater", []Category{CatTheater}},
	{"performing_arts_theater", []Category{CatTheater}},
	{"amusement_center", []Category{CatArcade}},
	{"bowling_alley", []Category{CatArcade}},
	{"park", []Category{CatPark, CatGarden}},
	{"campground", []Category{CatPark}},
	{"market", []Category{CatMarket}},
	{"shopping_mall", []Category{CatMarket}},
	{"tourist_attraction", []Category{CatScenicLookout, CatPark, CatMuseum}},
}

// MapCategory resolves provider type tags to exactly one category from the
// vibe's allowed set. When no rule matches, the vibe's first allowed
// category is the unconditional fallback, so the result is always a member
// of the allowed set.
func MapCategory(tags []string, vibe Vibe) Category {
	allowed := vibeCategories[vibe]

	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}

	for _, rule := range tagRules {
		if _, ok := tagSet[rule.tag]; !ok {
			continue
		}
		for _, cand := range rule.candidates {
			if categoryAllowed(cand, allowed) {
				return cand
			}
		}
	}

	return allowed[0]
}

func categoryAllowed(c Category, allowed []Category) bool {
	for _, a := range allowed {
		if a == c {
			return true
		}
	}
	return false
}
