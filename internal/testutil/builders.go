package testutil

import (
	"fmt"
	"time"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// ListingBuilder helps create listings for tests with a fluent interface
type ListingBuilder struct {
	listing domain.Listing
}

// NewListing creates a new builder with default values
func NewListing(id string) *ListingBuilder {
	return &ListingBuilder{listing: domain.Listing{
		ID:           id,
		Name:         "Hotel " + id,
		StarRating:   3,
		GuestRating:  4.0,
		NightlyPrice: domain.NewMoneyFromInt(5000),
		Currency:     "INR",
	}}
}

// WithName sets the listing name
func (b *ListingBuilder) WithName(name string) *ListingBuilder {
	b.listing.Name = name
	return b
}

// WithStars sets the star rating
func (b *ListingBuilder) WithStars(stars int) *ListingBuilder {
	b.listing.StarRating = stars
	return b
}

// WithRating sets the guest rating
func (b *ListingBuilder) WithRating(rating float64) *ListingBuilder {
	b.listing.GuestRating = rating
	return b
}

// WithPrice sets the nightly price in whole currency units
func (b *ListingBuilder) WithPrice(price int64) *ListingBuilder {
	b.listing.NightlyPrice = domain.NewMoneyFromInt(price)
	return b
}

// WithExactPrice sets the nightly price from decimal text such as "4999.90"
func (b *ListingBuilder) WithExactPrice(price string) *ListingBuilder {
	m, err := domain.ParseMoney(price)
	if err != nil {
		panic(err)
	}
	b.listing.NightlyPrice = m
	return b
}

// WithoutPrice clears the nightly price
func (b *ListingBuilder) WithoutPrice() *ListingBuilder {
	b.listing.NightlyPrice = nil
	return b
}

// WithAmenities sets the amenity tags
func (b *ListingBuilder) WithAmenities(tags ...string) *ListingBuilder {
	b.listing.Amenities = tags
	return b
}

// WithMealPlan sets the meal plan
func (b *ListingBuilder) WithMealPlan(plan string) *ListingBuilder {
	b.listing.MealPlan = plan
	return b
}

// Refundable marks the rate as refundable
func (b *ListingBuilder) Refundable() *ListingBuilder {
	b.listing.Refundable = true
	return b
}

// Build returns the listing
func (b *ListingBuilder) Build() domain.Listing {
	return b.listing
}

// Pool builds n listings priced 3000, 4000, ... with stars cycling 3..5.
func Pool(n int) []domain.Listing {
	out := make([]domain.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, NewListing(fmt.Sprintf("h%02d", i)).
			WithStars(3+i%3).
			WithRating(float64(30+i%20)/10).
			WithPrice(int64(3000+i*1000)).
			Build())
	}
	return out
}

// Criteria returns valid criteria for a two-night stay in Goa.
func Criteria() domain.SearchCriteria {
	c, err := domain.NewSearchCriteria("Goa",
		time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 22, 0, 0, 0, 0, time.UTC),
		[]domain.Room{{Adults: 2}}, "in", "INR")
	if err != nil {
		panic(err)
	}
	return c
}

// IDs returns the listing ids in order.
func IDs(listings []domain.Listing) []string {
	out := make([]string, len(listings))
	for i, l := range listings {
		out[i] = l.ID
	}
	return out
}
