package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultResidency = "in"
	DefaultCurrency  = "USD"
	MaxChildAge      = 17
)

var validate = validator.New()

// Room is the occupancy of one room.
type Room struct {
	Adults    int   `validate:"min=0,max=10"`
	ChildAges []int `validate:"max=6,dive,min=0,max=17"`
}

// SearchCriteria is immutable for the lifetime of one search.
type SearchCriteria struct {
	Destination string    `validate:"required"`
	CheckIn     time.Time `validate:"required"`
	CheckOut    time.Time `validate:"required,gtfield=CheckIn"`
	Rooms       []Room    `validate:"required,min=1,dive"`
	Residency   string    `validate:"len=2,alpha"`
	Currency    string    `validate:"len=3,alpha"`
}

// NewSearchCriteria normalizes and validates search input.
// Dates are truncated to calendar days; empty residency and currency take defaults.
func NewSearchCriteria(destination string, checkIn, checkOut time.Time, rooms []Room, residency, currency string) (SearchCriteria, error) {
	if residency == "" {
		residency = DefaultResidency
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	copied := make([]Room, len(rooms))
	for i, r := range rooms {
		copied[i] = Room{Adults: r.Adults, ChildAges: append([]int(nil), r.ChildAges...)}
	}

	c := SearchCriteria{
		Destination: strings.TrimSpace(destination),
		CheckIn:     truncateToDay(checkIn),
		CheckOut:    truncateToDay(checkOut),
		Rooms:       copied,
		Residency:   strings.ToLower(residency),
		Currency:    strings.ToUpper(currency),
	}
	if err := c.Validate(); err != nil {
		return SearchCriteria{}, err
	}
	return c, nil
}

// Validate checks the criteria invariants.
func (c SearchCriteria) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return criteriaError(verrs[0])
		}
		return fmt.Errorf("%w: %v", ErrInvalidCriteria, err)
	}
	if c.TotalAdults() == 0 {
		return ErrNoAdults
	}
	return nil
}

func criteriaError(fe validator.FieldError) error {
	field := fe.StructField()
	switch {
	case field == "Destination":
		return ErrEmptyDestination
	case field == "CheckIn" || field == "CheckOut":
		return ErrInvalidStayDates
	case field == "Rooms":
		return ErrNoRooms
	case field == "Adults":
		return ErrNoAdults
	case strings.HasPrefix(field, "ChildAges"):
		return ErrInvalidChildAge
	case field == "Residency":
		return ErrInvalidResidency
	case field == "Currency":
		return ErrInvalidCurrency
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalidCriteria, fe.Namespace(), fe.Tag())
}

// Nights returns the number of nights between check-in and check-out.
func (c SearchCriteria) Nights() int {
	return int(math.Ceil(c.CheckOut.Sub(c.CheckIn).Hours() / 24))
}

// TotalAdults sums adults across rooms.
func (c SearchCriteria) TotalAdults() int {
	total := 0
	for _, r := range c.Rooms {
		total += r.Adults
	}
	return total
}

// ChildAges flattens child ages across rooms in room order.
func (c SearchCriteria) ChildAges() []int {
	ages := make([]int, 0)
	for _, r := range c.Rooms {
		ages = append(ages, r.ChildAges...)
	}
	return ages
}

// GuestSummary renders e.g. "2 Rooms, 3 Adults, 1 Child".
func (c SearchCriteria) GuestSummary() string {
	parts := []string{
		plural(len(c.Rooms), "Room", "Rooms"),
		plural(c.TotalAdults(), "Adult", "Adults"),
	}
	if children := len(c.ChildAges()); children > 0 {
		parts = append(parts, plural(children, "Child", "Children"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
