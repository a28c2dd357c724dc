// Package view derives the displayed list from the loaded catalog and the
// current view selection. Everything here is pure: inputs are never mutated
// and the same inputs always produce the same order.
package view

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/meur/wishlist/internal/models"
)

// Derive filters and sorts items according to sel and returns a new slice.
// Unrecognised filter values exclude nothing and unrecognised sort values
// keep the input order.
func Derive(items []models.Item, sel models.ViewSelection) []models.Item {
	result := Filter(items, sel.Filter)
	Sort(result, sel.Sort)
	return result
}

// Filter returns a new slice holding the items that match f, in input order
func Filter(items []models.Item, f models.FilterOption) []models.Item {
	result := make([]models.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, f) {
			result = append(result, item)
		}
	}
	return result
}

// Matches reports whether item passes filter f
func Matches(item models.Item, f models.FilterOption) bool {
	switch f {
	case models.FilterRare:
		return item.RarityScore >= models.RareThreshold
	case models.FilterPopular:
		return item.PopularityScore >= models.PopularThreshold
	case models.FilterClassic:
		year, ok := ParseYear(item.YearReleased)
		return ok && year < models.ClassicBefore
	default:
		return true
	}
}

// Sort orders items in place by s. The sort is stable.
func Sort(items []models.Item, s models.SortOption) {
	if cmpFn := comparator(s); cmpFn != nil {
		slices.SortStableFunc(items, cmpFn)
	}
}

func comparator(s models.SortOption) func(a, b models.Item) int {
	switch s {
	case models.SortCombined:
		return func(a, b models.Item) int { return cmp.Compare(b.CombinedScore, a.CombinedScore) }
	case models.SortPopularity:
		return func(a, b models.Item) int { return cmp.Compare(b.PopularityScore, a.PopularityScore) }
	case models.SortRarity:
		return func(a, b models.Item) int { return cmp.Compare(b.RarityScore, a.RarityScore) }
	case models.SortYear:
		return compareYearDesc
	case models.SortName:
		// Collators keep internal buffers, so each sort gets its own.
		c := collate.New(language.English)
		return func(a, b models.Item) int { return c.CompareString(a.Name, b.Name) }
	default:
		return nil
	}
}

// compareYearDesc puts newer years first; unparseable years go last.
func compareYearDesc(a, b models.Item) int {
	ya, okA := ParseYear(a.YearReleased)
	yb, okB := ParseYear(b.YearReleased)
	switch {
	case okA && okB:
		return cmp.Compare(yb, ya)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}
