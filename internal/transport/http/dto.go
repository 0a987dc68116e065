package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

const (
	dateLayout   = "2006-01-02"
	maxBodyBytes = 1 << 20
)

var validate = validator.New()

type roomRequest struct {
	Adults    int   `json:"adults" validate:"min=0,max=10"`
	ChildAges []int `json:"child_ages" validate:"max=6,dive,min=0,max=17"`
}

// criteriaRequest is the body of start and modify search.
// Rooms may be omitted in favour of a single adults/children_ages room.
type criteriaRequest struct {
	Destination  string        `json:"destination" validate:"required"`
	CheckIn      string        `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut     string        `json:"check_out" validate:"required,datetime=2006-01-02"`
	Rooms        []roomRequest `json:"rooms" validate:"omitempty,max=9,dive"`
	Adults       int           `json:"adults" validate:"min=0,max=30"`
	ChildrenAges []int         `json:"children_ages" validate:"max=6,dive,min=0,max=17"`
	Residency    string        `json:"residency"`
	Currency     string        `json:"currency"`
}

type filterRequest struct {
	MaxPrice       *domain.Money `json:"max_price"`
	Stars          *[]int        `json:"stars" validate:"omitempty,dive,min=1,max=5"`
	MinGuestRating *float64      `json:"min_guest_rating" validate:"omitempty,max=5"`
	NameQuery      *string       `json:"name_query" validate:"omitempty,max=200"`
	Amenities      *[]string     `json:"amenities"`
	MealPlans      *[]string     `json:"meal_plans"`
	RefundableOnly *bool         `json:"refundable_only"`
}

type sortRequest struct {
	Sort string `json:"sort"`
}

type selectionRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

// decodeBody reads a JSON body into dst and validates it.
func decodeBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", errBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// criteria parses the dates and rooms. Domain validation happens in the usecase.
func (req criteriaRequest) criteria() (time.Time, time.Time, []domain.Room, error) {
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("%w: check_in: %v", errBadRequest, err)
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("%w: check_out: %v", errBadRequest, err)
	}

	rooms := make([]domain.Room, 0, len(req.Rooms))
	for _, r := range req.Rooms {
		rooms = append(rooms, domain.Room{Adults: r.Adults, ChildAges: r.ChildAges})
	}
	if len(rooms) == 0 {
		adults := req.Adults
		if adults == 0 {
			adults = 2
		}
		rooms = append(rooms, domain.Room{Adults: adults, ChildAges: req.ChildrenAges})
	}
	return checkIn, checkOut, rooms, nil
}

func (req filterRequest) patch() domain.FilterPatch {
	patch := domain.FilterPatch{
		MaxPrice:       req.MaxPrice,
		MinGuestRating: req.MinGuestRating,
		NameQuery:      req.NameQuery,
		Amenities:      req.Amenities,
		MealPlans:      req.MealPlans,
		RefundableOnly: req.RefundableOnly,
	}
	if req.Stars != nil {
		stars := domain.NewStarSet(*req.Stars...)
		patch.Stars = &stars
	}
	return patch
}

type listingResponse struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	StarRating          int           `json:"star_rating"`
	GuestRating         float64       `json:"guest_rating"`
	RatingLabel         string        `json:"rating_label"`
	ReviewCount         int           `json:"review_count"`
	Price               *domain.Money `json:"price"`
	Currency            string        `json:"currency"`
	OriginalPrice       *domain.Money `json:"original_price,omitempty"`
	DiscountPercent     int           `json:"discount_percent,omitempty"`
	Amenities           []string      `json:"amenities"`
	MealPlan            string        `json:"meal_plan,omitempty"`
	Address             string        `json:"address,omitempty"`
	Image               string        `json:"image,omitempty"`
	Latitude            *float64      `json:"latitude,omitempty"`
	Longitude           *float64      `json:"longitude,omitempty"`
	Refundable          bool          `json:"refundable"`
	LimitedAvailability bool          `json:"limited_availability"`
	Promoted            bool          `json:"promoted"`
}

type viewResponse struct {
	Listings     []listingResponse `json:"listings"`
	TotalMatched int               `json:"total_matched"`
	HasMore      bool              `json:"has_more"`
	Page         int               `json:"page"`
	PageSize     int               `json:"page_size"`
}

type roomResponse struct {
	Adults    int   `json:"adults"`
	ChildAges []int `json:"child_ages"`
}

type criteriaResponse struct {
	Destination  string         `json:"destination"`
	CheckIn      string         `json:"check_in"`
	CheckOut     string         `json:"check_out"`
	Rooms        []roomResponse `json:"rooms"`
	Residency    string         `json:"residency"`
	Currency     string         `json:"currency"`
	Nights       int            `json:"nights"`
	GuestSummary string         `json:"guest_summary"`
}

type filtersResponse struct {
	MaxPrice       *domain.Money `json:"max_price"`
	Stars          []int         `json:"stars"`
	MinGuestRating *float64      `json:"min_guest_rating"`
	NameQuery      string        `json:"name_query"`
	Amenities      []string      `json:"amenities"`
	MealPlans      []string      `json:"meal_plans"`
	RefundableOnly bool          `json:"refundable_only"`
}

type startSearchResponse struct {
	SessionID string           `json:"session_id"`
	Criteria  criteriaResponse `json:"criteria"`
	View      viewResponse     `json:"view"`
	Demo      bool             `json:"demo"`
}

type modifySearchResponse struct {
	Criteria criteriaResponse `json:"criteria"`
	View     viewResponse     `json:"view"`
	Demo     bool             `json:"demo"`
}

type getViewResponse struct {
	SessionID         string           `json:"session_id"`
	Criteria          criteriaResponse `json:"criteria"`
	Filters           filtersResponse  `json:"filters"`
	DefaultFilters    filtersResponse  `json:"default_filters"`
	Sort              string           `json:"sort"`
	SelectedListingID string           `json:"selected_listing_id,omitempty"`
	ResultCount       int              `json:"result_count"`
	Demo              bool             `json:"demo"`
	View              viewResponse     `json:"view"`
}

type loadMoreResponse struct {
	Listings     []listingResponse `json:"listings"`
	TotalMatched int               `json:"total_matched"`
	HasMore      bool              `json:"has_more"`
	Page         int               `json:"page"`
}

type selectionResponse struct {
	Listing   listingResponse  `json:"listing"`
	Nights    int              `json:"nights"`
	StayTotal *domain.Money    `json:"stay_total"`
	Currency  string           `json:"currency"`
	Criteria  criteriaResponse `json:"criteria"`
}

func toListingResponse(l domain.Listing) listingResponse {
	resp := listingResponse{
		ID:                  l.ID,
		Name:                l.Name,
		StarRating:          l.StarRating,
		GuestRating:         l.GuestRating,
		RatingLabel:         domain.RatingLabel(l.GuestRating),
		ReviewCount:         l.ReviewCount,
		Price:               l.Price(),
		Currency:            l.Currency,
		OriginalPrice:       l.OriginalPrice,
		DiscountPercent:     l.DiscountPercent(),
		Amenities:           l.Amenities,
		MealPlan:            l.MealPlan,
		Address:             l.Address,
		Image:               l.ImageURL,
		Refundable:          l.Refundable,
		LimitedAvailability: l.LimitedAvailability,
		Promoted:            l.Promoted,
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if l.Coordinates != nil {
		lat, lng := l.Coordinates.Latitude, l.Coordinates.Longitude
		resp.Latitude, resp.Longitude = &lat, &lng
	}
	return resp
}

func toListingResponses(listings []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return out
}

func toViewResponse(v domain.View) viewResponse {
	return viewResponse{
		Listings:     toListingResponses(v.Listings),
		TotalMatched: v.TotalMatched,
		HasMore:      v.HasMore,
		Page:         v.Page,
		PageSize:     v.PageSize,
	}
}

func toCriteriaResponse(c domain.SearchCriteria) criteriaResponse {
	rooms := make([]roomResponse, 0, len(c.Rooms))
	for _, r := range c.Rooms {
		ages := r.ChildAges
		if ages == nil {
			ages = []int{}
		}
		rooms = append(rooms, roomResponse{Adults: r.Adults, ChildAges: ages})
	}
	return criteriaResponse{
		Destination:  c.Destination,
		CheckIn:      c.CheckIn.Format(dateLayout),
		CheckOut:     c.CheckOut.Format(dateLayout),
		Rooms:        rooms,
		Residency:    c.Residency,
		Currency:     c.Currency,
		Nights:       c.Nights(),
		GuestSummary: c.GuestSummary(),
	}
}

func toFiltersResponse(f domain.FilterCriteria) filtersResponse {
	resp := filtersResponse{
		MaxPrice:       f.MaxPrice,
		Stars:          f.Stars.Stars(),
		NameQuery:      f.NameQuery,
		Amenities:      f.Amenities,
		MealPlans:      f.MealPlans,
		RefundableOnly: f.RefundableOnly,
	}
	if f.HasMinGuestRating() {
		rating := f.MinGuestRating
		resp.MinGuestRating = &rating
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if resp.MealPlans == nil {
		resp.MealPlans = []string{}
	}
	return resp
}
