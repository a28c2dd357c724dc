package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleReviewsSkipsEmpty(t *testing.T) {
	item := Item{Reviews: []string{"Great", "", "  ", "Fun"}}
	assert.Equal(t, []string{"Great", "  ", "Fun"}, item.VisibleReviews())
	assert.Len(t, item.Reviews, 4)
	assert.Empty(t, Item{}.VisibleReviews())
}

func TestBadges(t *testing.T) {
	item := Item{RarityScore: 8, PopularityScore: 7.99}
	assert.True(t, item.IsRare())
	assert.False(t, item.IsPopular())
}

func TestStarRating(t *testing.T) {
	tests := []struct {
		score float64
		full  int
		half  bool
	}{
		{0, 0, false},
		{7.4, 7, false},
		{7.5, 7, true},
		{9.99, 9, true},
		{10, 10, false},
		{12, 10, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got := StarRating(tt.score)
		assert.Equal(t, tt.full, got.Full, "score %v", tt.score)
		assert.Equal(t, tt.half, got.Half, "score %v", tt.score)
		assert.Equal(t, MaxStars, got.Max)
	}
}

func TestImageURL(t *testing.T) {
	item := Item{ImageFilename: "T-102_Lucifers_Lock.jpg"}
	assert.Equal(t, "/images/T-102_Lucifers_Lock.jpg", item.ImageURL(""))
	assert.Equal(t, "/wishlist/images/T-102_Lucifers_Lock.jpg", item.ImageURL("/wishlist/"))
	assert.Empty(t, Item{}.ImageURL("/"))
}

func TestParseView(t *testing.T) {
	sel, err := ParseView("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultView(), sel)

	sel, err = ParseView(" Rare ", "YEAR")
	require.NoError(t, err)
	assert.Equal(t, ViewSelection{Filter: FilterRare, Sort: SortYear}, sel)

	_, err = ParseView("shiny", "")
	assert.ErrorIs(t, err, ErrUnknownOption)
	_, err = ParseView("", "price")
	assert.ErrorIs(t, err, ErrUnknownOption)
}
