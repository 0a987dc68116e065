package domain

import (
	"fmt"
	"sort"
	"strings"
)

// NoMinGuestRating disables the guest-rating predicate.
const NoMinGuestRating = -1.0

// StarSet is a set of accepted star ratings in 1..5. The empty set accepts all.
type StarSet uint8

// NewStarSet builds a set from star ratings. Values outside 1..5 are ignored.
func NewStarSet(stars ...int) StarSet {
	var s StarSet
	for _, n := range stars {
		if n >= 1 && n <= 5 {
			s |= 1 << uint(n)
		}
	}
	return s
}

// ParseStarSet parses a comma separated list like "3,4,5".
func ParseStarSet(raw string) (StarSet, error) {
	var stars []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(part, "%d", &n); err != nil || n < 1 || n > 5 {
			return 0, fmt.Errorf("%w: star rating %q", ErrInvalidFilter, part)
		}
		stars = append(stars, n)
	}
	return NewStarSet(stars...), nil
}

// IsEmpty reports whether no star rating is selected.
func (s StarSet) IsEmpty() bool {
	return s == 0
}

// Contains reports whether the star rating is selected.
func (s StarSet) Contains(stars int) bool {
	if stars < 1 || stars > 5 {
		return false
	}
	return s&(1<<uint(stars)) != 0
}

// Accepts applies the empty-means-all rule.
func (s StarSet) Accepts(stars int) bool {
	return s.IsEmpty() || s.Contains(stars)
}

// Stars lists the selected ratings in ascending order.
func (s StarSet) Stars() []int {
	out := make([]int, 0, 5)
	for n := 1; n <= 5; n++ {
		if s.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func (s StarSet) String() string {
	parts := make([]string, 0, 5)
	for _, n := range s.Stars() {
		parts = append(parts, fmt.Sprint(n))
	}
	return strings.Join(parts, ",")
}

// FilterCriteria holds the user's narrowing constraints over a pool.
type FilterCriteria struct {
	MaxPrice       *Money
	Stars          StarSet
	MinGuestRating float64
	NameQuery      string
	Amenities      []string
	MealPlans      []string
	RefundableOnly bool
}

// HasMinGuestRating reports whether a minimum guest rating is set.
func (f FilterCriteria) HasMinGuestRating() bool {
	return f.MinGuestRating >= 0
}

// Copy returns a FilterCriteria sharing no mutable state with f.
func (f FilterCriteria) Copy() FilterCriteria {
	out := f
	if f.MaxPrice != nil {
		out.MaxPrice = f.MaxPrice.Copy()
	}
	out.Amenities = append([]string(nil), f.Amenities...)
	out.MealPlans = append([]string(nil), f.MealPlans...)
	return out
}

// Matches reports whether a listing passes every predicate.
// Predicates are evaluated price, stars, guest rating, name, then the extras.
func (f FilterCriteria) Matches(l Listing) bool {
	if f.MaxPrice != nil && l.Price().GreaterThan(f.MaxPrice) {
		return false
	}
	if !f.Stars.Accepts(l.StarRating) {
		return false
	}
	if f.HasMinGuestRating() && l.GuestRating < f.MinGuestRating {
		return false
	}
	if f.NameQuery != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.NameQuery)) {
		return false
	}
	for _, tag := range f.Amenities {
		if !l.HasAmenity(tag) {
			return false
		}
	}
	if len(f.MealPlans) > 0 && !containsFold(f.MealPlans, l.MealPlan) {
		return false
	}
	if f.RefundableOnly && !l.Refundable {
		return false
	}
	return true
}

// FilterPatch is a partial FilterCriteria. Nil fields keep their current value.
type FilterPatch struct {
	MaxPrice       *Money
	Stars          *StarSet
	MinGuestRating *float64
	NameQuery      *string
	Amenities      *[]string
	MealPlans      *[]string
	RefundableOnly *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p FilterPatch) IsEmpty() bool {
	return p.MaxPrice == nil && p.Stars == nil && p.MinGuestRating == nil && p.NameQuery == nil &&
		p.Amenities == nil && p.MealPlans == nil && p.RefundableOnly == nil
}

// Merge returns f with the patch applied. A negative max price is clamped to zero
// and a negative minimum rating clears the minimum.
func (f FilterCriteria) Merge(p FilterPatch) FilterCriteria {
	out := f.Copy()
	if p.MaxPrice != nil {
		if p.MaxPrice.IsNegative() {
			out.MaxPrice = ZeroMoney()
		} else {
			out.MaxPrice = p.MaxPrice.Copy()
		}
	}
	if p.Stars != nil {
		out.Stars = *p.Stars
	}
	if p.MinGuestRating != nil {
		if *p.MinGuestRating < 0 {
			out.MinGuestRating = NoMinGuestRating
		} else {
			out.MinGuestRating = *p.MinGuestRating
		}
	}
	if p.NameQuery != nil {
		out.NameQuery = *p.NameQuery
	}
	if p.Amenities != nil {
		out.Amenities = normalizeTags(*p.Amenities)
	}
	if p.MealPlans != nil {
		out.MealPlans = normalizeTags(*p.MealPlans)
	}
	if p.RefundableOnly != nil {
		out.RefundableOnly = *p.RefundableOnly
	}
	return out
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
