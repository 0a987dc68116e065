package repo

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

const (
	poolFormatVersion = 2
	dateLayout        = "2006-01-02"
)

// amountDoc holds an amount as exact text. Older documents stored JSON
// numbers, which are read back as their literal text.
type amountDoc string

func (a *amountDoc) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = amountDoc(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = amountDoc(num)
	return nil
}

func toAmountDoc(m *domain.Money) *amountDoc {
	if m == nil {
		return nil
	}
	a := amountDoc(m.Exact())
	return &a
}

func (a *amountDoc) money() (*domain.Money, error) {
	if a == nil {
		return nil, nil
	}
	return domain.ParseMoney(string(*a))
}

type listingDoc struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	StarRating          int        `json:"star_rating"`
	GuestRating         float64    `json:"guest_rating"`
	ReviewCount         int        `json:"review_count"`
	Price               *amountDoc `json:"price,omitempty"`
	Currency            string     `json:"currency"`
	OriginalPrice       *amountDoc `json:"original_price,omitempty"`
	Amenities           []string   `json:"amenities,omitempty"`
	MealPlan            string     `json:"meal_plan,omitempty"`
	Address             string     `json:"address,omitempty"`
	ImageURL            string     `json:"image,omitempty"`
	Latitude            *float64   `json:"latitude,omitempty"`
	Longitude           *float64   `json:"longitude,omitempty"`
	Refundable          bool       `json:"refundable"`
	LimitedAvailability bool       `json:"limited_availability"`
	Promoted            bool       `json:"promoted"`
}

type poolDoc struct {
	Version  int          `json:"v"`
	Listings []listingDoc `json:"listings"`
}

// encodePool serializes a pool for the result caches.
func encodePool(listings []domain.Listing) ([]byte, error) {
	doc := poolDoc{Version: poolFormatVersion, Listings: make([]listingDoc, len(listings))}
	for i, l := range listings {
		d := listingDoc{
			ID:                  l.ID,
			Name:                l.Name,
			StarRating:          l.StarRating,
			GuestRating:         l.GuestRating,
			ReviewCount:         l.ReviewCount,
			Price:               toAmountDoc(l.NightlyPrice),
			Currency:            l.Currency,
			OriginalPrice:       toAmountDoc(l.OriginalPrice),
			Amenities:           l.Amenities,
			MealPlan:            l.MealPlan,
			Address:             l.Address,
			ImageURL:            l.ImageURL,
			Refundable:          l.Refundable,
			LimitedAvailability: l.LimitedAvailability,
			Promoted:            l.Promoted,
		}
		if l.Coordinates != nil {
			lat, lng := l.Coordinates.Latitude, l.Coordinates.Longitude
			d.Latitude, d.Longitude = &lat, &lng
		}
		doc.Listings[i] = d
	}
	return json.Marshal(doc)
}

// decodePool restores a cached pool. Unknown format versions count as a miss.
func decodePool(data []byte) ([]domain.Listing, error) {
	var doc poolDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cached pool: %w", err)
	}
	if doc.Version != poolFormatVersion {
		return nil, domain.ErrResultsExpired
	}

	listings := make([]domain.Listing, len(doc.Listings))
	for i, d := range doc.Listings {
		price, err := d.Price.money()
		if err != nil {
			return nil, fmt.Errorf("failed to decode price of %s: %w", d.ID, err)
		}
		original, err := d.OriginalPrice.money()
		if err != nil {
			return nil, fmt.Errorf("failed to decode original price of %s: %w", d.ID, err)
		}
		l := domain.Listing{
			ID:                  d.ID,
			Name:                d.Name,
			StarRating:          d.StarRating,
			GuestRating:         d.GuestRating,
			ReviewCount:         d.ReviewCount,
			NightlyPrice:        price,
			Currency:            d.Currency,
			OriginalPrice:       original,
			Amenities:           d.Amenities,
			MealPlan:            d.MealPlan,
			Address:             d.Address,
			ImageURL:            d.ImageURL,
			Refundable:          d.Refundable,
			LimitedAvailability: d.LimitedAvailability,
			Promoted:            d.Promoted,
		}
		if d.Latitude != nil && d.Longitude != nil {
			l.Coordinates = &domain.Coordinates{Latitude: *d.Latitude, Longitude: *d.Longitude}
		}
		listings[i] = l
	}
	return listings, nil
}

type roomDoc struct {
	Adults    int   `json:"adults"`
	ChildAges []int `json:"child_ages,omitempty"`
}

type criteriaDoc struct {
	Destination string    `json:"destination"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Rooms       []roomDoc `json:"rooms"`
	Residency   string    `json:"residency"`
	Currency    string    `json:"currency"`
}

func encodeCriteria(c domain.SearchCriteria) (string, error) {
	doc := criteriaDoc{
		Destination: c.Destination,
		CheckIn:     c.CheckIn.Format(dateLayout),
		CheckOut:    c.CheckOut.Format(dateLayout),
		Rooms:       make([]roomDoc, len(c.Rooms)),
		Residency:   c.Residency,
		Currency:    c.Currency,
	}
	for i, r := range c.Rooms {
		doc.Rooms[i] = roomDoc{Adults: r.Adults, ChildAges: r.ChildAges}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeCriteria(raw string) (domain.SearchCriteria, error) {
	var doc criteriaDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("failed to decode criteria: %w", err)
	}
	checkIn, err := time.Parse(dateLayout, doc.CheckIn)
	if err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("failed to parse check-in: %w", err)
	}
	checkOut, err := time.Parse(dateLayout, doc.CheckOut)
	if err != nil {
		return domain.SearchCriteria{}, fmt.Errorf("failed to parse check-out: %w", err)
	}

	rooms := make([]domain.Room, len(doc.Rooms))
	for i, r := range doc.Rooms {
		rooms[i] = domain.Room{Adults: r.Adults, ChildAges: r.ChildAges}
	}
	return domain.SearchCriteria{
		Destination: doc.Destination,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Rooms:       rooms,
		Residency:   doc.Residency,
		Currency:    doc.Currency,
	}, nil
}

type filterDoc struct {
	MaxPrice       *amountDoc `json:"max_price,omitempty"`
	Stars          []int      `json:"stars"`
	MinGuestRating *float64   `json:"min_guest_rating,omitempty"`
	NameQuery      string     `json:"name_query,omitempty"`
	Amenities      []string   `json:"amenities,omitempty"`
	MealPlans      []string   `json:"meal_plans,omitempty"`
	RefundableOnly bool       `json:"refundable_only,omitempty"`
}

type filtersColumn struct {
	Active   filterDoc `json:"active"`
	Defaults filterDoc `json:"defaults"`
}

func toFilterDoc(f domain.FilterCriteria) filterDoc {
	doc := filterDoc{
		MaxPrice:       toAmountDoc(f.MaxPrice),
		Stars:          f.Stars.Stars(),
		NameQuery:      f.NameQuery,
		Amenities:      f.Amenities,
		MealPlans:      f.MealPlans,
		RefundableOnly: f.RefundableOnly,
	}
	if f.HasMinGuestRating() {
		rating := f.MinGuestRating
		doc.MinGuestRating = &rating
	}
	return doc
}

func fromFilterDoc(doc filterDoc) (domain.FilterCriteria, error) {
	maxPrice, err := doc.MaxPrice.money()
	if err != nil {
		return domain.FilterCriteria{}, fmt.Errorf("failed to decode max price: %w", err)
	}
	f := domain.FilterCriteria{
		MaxPrice:       maxPrice,
		Stars:          domain.NewStarSet(doc.Stars...),
		MinGuestRating: domain.NoMinGuestRating,
		NameQuery:      doc.NameQuery,
		Amenities:      doc.Amenities,
		MealPlans:      doc.MealPlans,
		RefundableOnly: doc.RefundableOnly,
	}
	if doc.MinGuestRating != nil {
		f.MinGuestRating = *doc.MinGuestRating
	}
	return f, nil
}

func encodeFilters(active, defaults domain.FilterCriteria) (string, error) {
	data, err := json.Marshal(filtersColumn{Active: toFilterDoc(active), Defaults: toFilterDoc(defaults)})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeFilters(raw string) (active, defaults domain.FilterCriteria, err error) {
	var col filtersColumn
	if err := json.Unmarshal([]byte(raw), &col); err != nil {
		return domain.FilterCriteria{}, domain.FilterCriteria{}, fmt.Errorf("failed to decode filters: %w", err)
	}
	if active, err = fromFilterDoc(col.Active); err != nil {
		return domain.FilterCriteria{}, domain.FilterCriteria{}, err
	}
	if defaults, err = fromFilterDoc(col.Defaults); err != nil {
		return domain.FilterCriteria{}, domain.FilterCriteria{}, err
	}
	return active, defaults, nil
}
