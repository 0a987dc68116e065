package domain

import "strings"

// Coordinates locates a property on the map.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Listing is one sellable property returned by a search.
// Listings are treated as immutable once they enter an Engine.
type Listing struct {
	ID                  string
	Name                string
	StarRating          int
	GuestRating         float64
	ReviewCount         int
	NightlyPrice        *Money
	Currency            string
	OriginalPrice       *Money
	Amenities           []string
	MealPlan            string
	Address             string
	ImageURL            string
	Coordinates         *Coordinates
	Refundable          bool
	LimitedAvailability bool
	Promoted            bool
}

// Price returns the nightly price, treating a missing price as zero.
func (l Listing) Price() *Money {
	if l.NightlyPrice == nil {
		return ZeroMoney()
	}
	return l.NightlyPrice
}

// DiscountPercent returns the whole-percent saving against the original price,
// or 0 when there is no higher original price.
func (l Listing) DiscountPercent() int {
	if l.OriginalPrice == nil || l.OriginalPrice.IsZero() || !l.OriginalPrice.GreaterThan(l.Price()) {
		return 0
	}
	original := l.OriginalPrice.Float64()
	return int((original - l.Price().Float64()) / original * 100)
}

// HasAmenity reports whether the listing carries the given amenity tag.
func (l Listing) HasAmenity(tag string) bool {
	for _, a := range l.Amenities {
		if strings.EqualFold(a, tag) {
			return true
		}
	}
	return false
}

// StayTotal returns the nightly price multiplied by the number of nights.
func (l Listing) StayTotal(nights int) *Money {
	if nights < 1 {
		nights = 1
	}
	return l.Price().Multiply(int64(nights))
}

// RatingLabel returns the guest-facing wording for a guest rating.
func RatingLabel(rating float64) string {
	switch {
	case rating >= 4.5:
		return "Excellent"
	case rating >= 4.0:
		return "Very Good"
	case rating >= 3.5:
		return "Good"
	case rating >= 3.0:
		return "Average"
	default:
		return "Fair"
	}
}
