package searchapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// looseNumber accepts a JSON number, a numeric string or null.
// Anything unparsable decodes as 0 instead of failing the whole response.
type looseNumber struct {
	value float64
	text  string
	set   bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.value, n.text, n.set = v, raw, true
	return nil
}

// money keeps the exact decimal the backend sent. Text big.Rat cannot read
// falls back to the parsed float.
func (n looseNumber) money() *domain.Money {
	if m, err := domain.ParseMoney(n.text); err == nil {
		return m
	}
	return domain.NewMoneyFromFloat(n.value)
}

// looseString accepts a JSON string or number.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return nil
		}
		*s = looseString(strings.TrimSpace(v))
		return nil
	}
	*s = looseString(string(data))
	return nil
}

// looseBool accepts true/false, "true"/"false" and 0/1.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(strings.ToLower(string(bytes.TrimSpace(data))), `"`) {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

type ratePayload struct {
	Price looseNumber `json:"price"`
}

type hotelPayload struct {
	ID                  looseString   `json:"id"`
	Name                string        `json:"name"`
	StarRating          looseNumber   `json:"star_rating"`
	GuestRating         looseNumber   `json:"guest_rating"`
	ReviewCount         looseNumber   `json:"review_count"`
	Price               looseNumber   `json:"price"`
	OriginalPrice       looseNumber   `json:"original_price"`
	Currency            string        `json:"currency"`
	Amenities           []string      `json:"amenities"`
	MealPlan            string        `json:"meal_plan"`
	Address             string        `json:"address"`
	Image               string        `json:"image"`
	Images              []string      `json:"images"`
	Latitude            looseNumber   `json:"latitude"`
	Longitude           looseNumber   `json:"longitude"`
	Refundable          looseBool     `json:"refundable"`
	LimitedAvailability looseBool     `json:"limited_availability"`
	Promoted            looseBool     `json:"promoted"`
	Rates               []ratePayload `json:"rates"`
}

type searchResponse struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Data    *struct {
		Hotels []hotelPayload `json:"hotels"`
	} `json:"data"`
	Hotels []hotelPayload `json:"hotels"`
}

// hotels returns data.hotels, falling back to a top-level hotels array.
func (r *searchResponse) hotels() []hotelPayload {
	if r.Data != nil && r.Data.Hotels != nil {
		return r.Data.Hotels
	}
	return r.Hotels
}

// failed reports an explicit success=false.
func (r *searchResponse) failed() bool {
	return r.Success != nil && !*r.Success
}

// normalizeHotels maps raw hotel records to listings. Records without an id are skipped.
func normalizeHotels(raw []hotelPayload, currency string) []domain.Listing {
	listings := make([]domain.Listing, 0, len(raw))
	for _, h := range raw {
		if h.ID == "" {
			continue
		}
		listings = append(listings, normalizeHotel(h, currency))
	}
	return listings
}

func normalizeHotel(h hotelPayload, currency string) domain.Listing {
	l := domain.Listing{
		ID:                  string(h.ID),
		Name:                strings.TrimSpace(h.Name),
		StarRating:          clampStars(h.StarRating.value),
		GuestRating:         clampRating(h.GuestRating.value),
		ReviewCount:         int(math.Max(0, h.ReviewCount.value)),
		Currency:            h.Currency,
		Amenities:           nonNil(h.Amenities),
		MealPlan:            h.MealPlan,
		Address:             h.Address,
		ImageURL:            h.Image,
		Refundable:          bool(h.Refundable),
		LimitedAvailability: bool(h.LimitedAvailability),
		Promoted:            bool(h.Promoted),
	}
	if l.Currency == "" {
		l.Currency = currency
	}
	if l.ImageURL == "" && len(h.Images) > 0 {
		l.ImageURL = h.Images[0]
	}

	switch {
	case h.Price.set:
		l.NightlyPrice = h.Price.money()
	case len(h.Rates) > 0 && h.Rates[0].Price.set:
		l.NightlyPrice = h.Rates[0].Price.money()
	}
	if h.OriginalPrice.set && h.OriginalPrice.value > 0 {
		l.OriginalPrice = h.OriginalPrice.money()
	}
	if h.Latitude.set && h.Longitude.set {
		l.Coordinates = &domain.Coordinates{Latitude: h.Latitude.value, Longitude: h.Longitude.value}
	}
	return l
}

func clampStars(v float64) int {
	return int(math.Max(0, math.Min(5, math.Round(v))))
}

// clampRating keeps guest ratings within [0, 5] with one decimal.
func clampRating(v float64) float64 {
	v = math.Max(0, math.Min(5, v))
	return math.Round(v*10) / 10
}

func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
