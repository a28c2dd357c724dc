package models

import (
	"math"
	"path"
)

// Score thresholds shared by the filters and the card badges.
const (
	RareThreshold    = 8.0
	PopularThreshold = 8.0
	ClassicBefore    = 1990
	MaxStars         = 10
)

// Item represents a single collectible in the catalog
type Item struct {
	Code            string   `json:"product_code"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	YearReleased    string   `json:"year_released"`
	Creator         string   `json:"creator"`
	PopularityScore float64  `json:"popularity_score"`
	RarityScore     float64  `json:"rarity_score"`
	CombinedScore   float64  `json:"combined_score"`
	ImageFilename   string   `json:"image_filename"`
	Reviews         []string `json:"reviews"`
	Consensus       string   `json:"consensus"`
}

// IsRare reports whether the item carries the rare badge
func (i Item) IsRare() bool {
	return i.RarityScore >= RareThreshold
}

// IsPopular reports whether the item carries the popular badge
func (i Item) IsPopular() bool {
	return i.PopularityScore >= PopularThreshold
}

// VisibleReviews returns the reviews worth displaying, skipping empty entries.
// The item's own slice is left untouched.
func (i Item) VisibleReviews() []string {
	out := make([]string, 0, len(i.Reviews))
	for _, r := range i.Reviews {
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ImageURL resolves the item's image relative to the deployed base path.
// Existence of the file is not checked.
func (i Item) ImageURL(basePath string) string {
	if i.ImageFilename == "" {
		return ""
	}
	if basePath == "" {
		basePath = "/"
	}
	return path.Join(basePath, "images", i.ImageFilename)
}

// Stars describes a 0-10 star rating as shown on a card
type Stars struct {
	Score float64 `json:"score"`
	Full  int     `json:"full"`
	Half  bool    `json:"half"`
	Max   int     `json:"max"`
}

// StarRating converts a score into full stars plus an optional half star.
// A half star is shown when the fractional part is at least 0.5.
func StarRating(score float64) Stars {
	if math.IsNaN(score) || score < 0 {
		score = 0
	}
	full := int(math.Floor(score))
	half := score-math.Floor(score) >= 0.5
	if full >= MaxStars {
		full, half = MaxStars, false
	}
	return Stars{Score: score, Full: full, Half: half, Max: MaxStars}
}

// ItemList is the derived grid returned to clients
type ItemList struct {
	Items         []Item       `json:"items"`
	TotalCount    int          `json:"total_count"`
	FilteredCount int          `json:"filtered_count"`
	Filter        FilterOption `json:"filter"`
	Sort          SortOption   `json:"sort"`
}

// ItemDetail is the expanded view of one item
type ItemDetail struct {
	Item
	Reviews  []string `json:"reviews"`
	ImageURL string   `json:"image_url,omitempty"`
	Rare     bool     `json:"rare"`
	Popular  bool     `json:"popular"`
	Ratings  struct {
		Popularity Stars `json:"popularity"`
		Rarity     Stars `json:"rarity"`
	} `json:"ratings"`
}

// NewItemDetail builds the detail view for an item
func NewItemDetail(item Item, basePath string) ItemDetail {
	d := ItemDetail{
		Item:     item,
		Reviews:  item.VisibleReviews(),
		ImageURL: item.ImageURL(basePath),
		Rare:     item.IsRare(),
		Popular:  item.IsPopular(),
	}
	d.Ratings.Popularity = StarRating(item.PopularityScore)
	d.Ratings.Rarity = StarRating(item.RarityScore)
	return d
}
