package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SortMode selects the ordering applied to the filtered pool.
type SortMode string

const (
	// SortRecommended keeps the order the search API returned.
	SortRecommended      SortMode = "recommended"
	SortPriceAscending   SortMode = "price_low"
	SortPriceDescending  SortMode = "price_high"
	SortRatingDescending SortMode = "rating"
	SortStarsDescending  SortMode = "stars"
)

// ParseSortMode maps a wire name to a SortMode. Empty input means recommended.
func ParseSortMode(raw string) (SortMode, error) {
	mode := SortMode(strings.ToLower(strings.TrimSpace(raw)))
	if mode == "" {
		return SortRecommended, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortMode, raw)
	}
	return mode, nil
}

// IsValid reports whether the mode is one of the known modes.
func (m SortMode) IsValid() bool {
	switch m {
	case SortRecommended, SortPriceAscending, SortPriceDescending, SortRatingDescending, SortStarsDescending:
		return true
	}
	return false
}

// less returns the strict ordering for the mode, or nil for recommended.
func (m SortMode) less(listings []Listing) func(i, j int) bool {
	switch m {
	case SortPriceAscending:
		return func(i, j int) bool { return listings[i].Price().LessThan(listings[j].Price()) }
	case SortPriceDescending:
		return func(i, j int) bool { return listings[i].Price().GreaterThan(listings[j].Price()) }
	case SortRatingDescending:
		return func(i, j int) bool { return listings[i].GuestRating > listings[j].GuestRating }
	case SortStarsDescending:
		return func(i, j int) bool { return listings[i].StarRating > listings[j].StarRating }
	}
	return nil
}

// Apply sorts listings in place. Ties keep their relative order.
func (m SortMode) Apply(listings []Listing) {
	if less := m.less(listings); less != nil {
		sort.SliceStable(listings, less)
	}
}
