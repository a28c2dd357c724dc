package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meur/wishlist/internal/models"
)

func codes(items []models.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Code
	}
	return out
}

func sampleItems() []models.Item {
	return []models.Item{
		{Code: "A", Name: "Mystery Box", RarityScore: 9, PopularityScore: 3, CombinedScore: 6, YearReleased: "1985"},
		{Code: "B", Name: "apple Trick", RarityScore: 2, PopularityScore: 9, CombinedScore: 5.5, YearReleased: "1995"},
		{Code: "C", Name: "Zebra Cards", RarityScore: 8, PopularityScore: 8, CombinedScore: 8, YearReleased: "1989"},
		{Code: "D", Name: "Bill Tube", RarityScore: 5, PopularityScore: 7.9, CombinedScore: 6, YearReleased: "1990"},
		{Code: "E", Name: "Coin Case", RarityScore: 7.99, PopularityScore: 8, CombinedScore: 6, YearReleased: "unknown"},
	}
}

var allFilters = []models.FilterOption{models.FilterAll, models.FilterRare, models.FilterPopular, models.FilterClassic}

var allSorts = []models.SortOption{models.SortCombined, models.SortPopularity, models.SortRarity, models.SortYear, models.SortName}

func TestDeriveRareByCombined(t *testing.T) {
	items := sampleItems()[:2]
	got := Derive(items, models.ViewSelection{Filter: models.FilterRare, Sort: models.SortCombined})
	assert.Equal(t, []string{"A"}, codes(got))
}

func TestDeriveAllByYear(t *testing.T) {
	items := sampleItems()[:2]
	got := Derive(items, models.ViewSelection{Filter: models.FilterAll, Sort: models.SortYear})
	assert.Equal(t, []string{"B", "A"}, codes(got))
}

func TestClassicBoundaryIsStrict(t *testing.T) {
	items := []models.Item{
		{Code: "old", YearReleased: "1989"},
		{Code: "edge", YearReleased: "1990"},
		{Code: "nan", YearReleased: "n/a"},
	}
	got := Derive(items, models.ViewSelection{Filter: models.FilterClassic, Sort: models.SortYear})
	assert.Equal(t, []string{"old"}, codes(got))
}

func TestNameSortIsLocaleAware(t *testing.T) {
	items := []models.Item{{Code: "z", Name: "Zebra"}, {Code: "a", Name: "apple"}}
	got := Derive(items, models.ViewSelection{Filter: models.FilterAll, Sort: models.SortName})
	assert.Equal(t, []string{"a", "z"}, codes(got))
}

func TestYearSortPutsUnparseableLast(t *testing.T) {
	items := []models.Item{
		{Code: "x", YearReleased: ""},
		{Code: "old", YearReleased: "1970"},
		{Code: "y", YearReleased: "soon"},
		{Code: "new", YearReleased: "2001"},
	}
	got := Derive(items, models.ViewSelection{Filter: models.FilterAll, Sort: models.SortYear})
	assert.Equal(t, []string{"new", "old", "x", "y"}, codes(got))
}

func TestSortIsStable(t *testing.T) {
	// A, D and E share a combined score of 6 and must keep their input order.
	got := Derive(sampleItems(), models.ViewSelection{Filter: models.FilterAll, Sort: models.SortCombined})
	assert.Equal(t, []string{"C", "A", "D", "E", "B"}, codes(got))
}

func TestFilterPredicates(t *testing.T) {
	tests := []struct {
		filter models.FilterOption
		want   []string
	}{
		{models.FilterAll, []string{"A", "B", "C", "D", "E"}},
		{models.FilterRare, []string{"A", "C"}},
		{models.FilterPopular, []string{"B", "C", "E"}},
		{models.FilterClassic, []string{"A", "C"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			got := Filter(sampleItems(), tt.filter)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestDeriveProperties(t *testing.T) {
	items := sampleItems()
	for _, f := range allFilters {
		for _, s := range allSorts {
			t.Run(fmt.Sprintf("%s/%s", f, s), func(t *testing.T) {
				sel := models.ViewSelection{Filter: f, Sort: s}
				once := Derive(items, sel)

				require.LessOrEqual(t, len(once), len(items))
				for _, item := range once {
					assert.True(t, Matches(item, f), "item %s does not match %s", item.Code, f)
				}
				if f == models.FilterAll {
					assert.Len(t, once, len(items))
				}

				twice := Derive(once, sel)
				assert.Equal(t, codes(once), codes(twice))
			})
		}
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	before := codes(items)
	for _, s := range allSorts {
		_ = Derive(items, models.ViewSelection{Filter: models.FilterAll, Sort: s})
	}
	assert.Equal(t, before, codes(items))
}

func TestDeriveUnknownOptionsPassThrough(t *testing.T) {
	items := sampleItems()
	got := Derive(items, models.ViewSelection{Filter: "bogus", Sort: "bogus"})
	assert.Equal(t, codes(items), codes(got))
}

func TestDeriveEmpty(t *testing.T) {
	got := Derive(nil, models.DefaultView())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"1985", 1985, true},
		{"  1985", 1985, true},
		{"1985 (reissue)", 1985, true},
		{"-12", -12, true},
		{"+2001", 2001, true},
		{"", 0, false},
		{"circa 1980", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseYear(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
