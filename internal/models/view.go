package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOption is returned when a filter or sort value is not recognised
var ErrUnknownOption = errors.New("unknown view option")

// FilterOption selects which items are shown
type FilterOption string

const (
	FilterAll     FilterOption = "all"
	FilterRare    FilterOption = "rare"
	FilterPopular FilterOption = "popular"
	FilterClassic FilterOption = "classic"
)

// SortOption selects the order of the shown items
type SortOption string

const (
	SortCombined   SortOption = "combined"
	SortPopularity SortOption = "popularity"
	SortRarity     SortOption = "rarity"
	SortYear       SortOption = "year"
	SortName       SortOption = "name"
)

// ViewSelection is the pair of user-chosen filter and sort modes.
// It is a plain value: callers replace it wholesale and pass it to every derivation.
type ViewSelection struct {
	Filter FilterOption `json:"filter"`
	Sort   SortOption   `json:"sort"`
}

// DefaultView returns the selection a new session starts with
func DefaultView() ViewSelection {
	return ViewSelection{Filter: FilterAll, Sort: SortCombined}
}

// OptionConfig describes a selectable option for clients
type OptionConfig struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions lists the filters in display order
func FilterOptions() []OptionConfig {
	return []OptionConfig{
		{Value: string(FilterAll), Label: "All"},
		{Value: string(FilterRare), Label: "Rare (8+)"},
		{Value: string(FilterPopular), Label: "Popular (8+)"},
		{Value: string(FilterClassic), Label: "Classic (<1990)"},
	}
}

// SortOptions lists the sort modes in display order
func SortOptions() []OptionConfig {
	return []OptionConfig{
		{Value: string(SortCombined), Label: "Combined Score"},
		{Value: string(SortPopularity), Label: "Popularity"},
		{Value: string(SortRarity), Label: "Rarity"},
		{Value: string(SortYear), Label: "Year (Newest)"},
		{Value: string(SortName), Label: "Name (A-Z)"},
	}
}

// ParseFilter validates a filter value. An empty string yields the default.
func ParseFilter(s string) (FilterOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FilterAll, nil
	}
	for _, o := range FilterOptions() {
		if o.Value == s {
			return FilterOption(s), nil
		}
	}
	return "", fmt.Errorf("filter %q: %w", s, ErrUnknownOption)
}

// ParseSort validates a sort value. An empty string yields the default.
func ParseSort(s string) (SortOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortCombined, nil
	}
	for _, o := range SortOptions() {
		if o.Value == s {
			return SortOption(s), nil
		}
	}
	return "", fmt.Errorf("sort %q: %w", s, ErrUnknownOption)
}

// ParseView validates both halves of a selection
func ParseView(filter, sort string) (ViewSelection, error) {
	f, err := ParseFilter(filter)
	if err != nil {
		return ViewSelection{}, err
	}
	s, err := ParseSort(sort)
	if err != nil {
		return ViewSelection{}, err
	}
	return ViewSelection{Filter: f, Sort: s}, nil
}
