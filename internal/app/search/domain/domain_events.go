package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// SearchStartedEvent is emitted when a new search session is created.
type SearchStartedEvent struct {
	SessionID   string    `json:"session_id"`
	Destination string    `json:"destination"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Rooms       int       `json:"rooms"`
	Adults      int       `json:"adults"`
	Children    int       `json:"children"`
	StartedAt   time.Time `json:"started_at"`
}

func (e *SearchStartedEvent) EventType() string   { return "search.started" }
func (e *SearchStartedEvent) AggregateID() string { return e.SessionID }

// ResultsLoadedEvent is emitted when a pool is loaded into the session.
type ResultsLoadedEvent struct {
	SessionID    string    `json:"session_id"`
	PoolSize     int       `json:"pool_size"`
	TotalMatched int       `json:"total_matched"`
	Demo         bool      `json:"demo"`
	LoadedAt     time.Time `json:"loaded_at"`
}

func (e *ResultsLoadedEvent) EventType() string   { return "search.results_loaded" }
func (e *ResultsLoadedEvent) AggregateID() string { return e.SessionID }

// FiltersAppliedEvent is emitted when the user narrows or widens the filters.
type FiltersAppliedEvent struct {
	SessionID      string    `json:"session_id"`
	MaxPrice       string    `json:"max_price,omitempty"`
	Stars          []int     `json:"stars"`
	MinGuestRating *float64  `json:"min_guest_rating,omitempty"`
	NameQuery      string    `json:"name_query,omitempty"`
	Amenities      []string  `json:"amenities,omitempty"`
	MealPlans      []string  `json:"meal_plans,omitempty"`
	RefundableOnly bool      `json:"refundable_only"`
	TotalMatched   int       `json:"total_matched"`
	AppliedAt      time.Time `json:"applied_at"`
}

func (e *FiltersAppliedEvent) EventType() string   { return "search.filters_applied" }
func (e *FiltersAppliedEvent) AggregateID() string { return e.SessionID }

// FiltersResetEvent is emitted when the filters return to their defaults.
type FiltersResetEvent struct {
	SessionID    string    `json:"session_id"`
	TotalMatched int       `json:"total_matched"`
	ResetAt      time.Time `json:"reset_at"`
}

func (e *FiltersResetEvent) EventType() string   { return "search.filters_reset" }
func (e *FiltersResetEvent) AggregateID() string { return e.SessionID }

// SortChangedEvent is emitted when the sort mode changes.
type SortChangedEvent struct {
	SessionID string    `json:"session_id"`
	Sort      string    `json:"sort"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e *SortChangedEvent) EventType() string   { return "search.sort_changed" }
func (e *SortChangedEvent) AggregateID() string { return e.SessionID }

// PageRevealedEvent is emitted when another page of results is shown.
type PageRevealedEvent struct {
	SessionID  string    `json:"session_id"`
	Page       int       `json:"page"`
	Revealed   int       `json:"revealed"`
	HasMore    bool      `json:"has_more"`
	RevealedAt time.Time `json:"revealed_at"`
}

func (e *PageRevealedEvent) EventType() string   { return "search.page_revealed" }
func (e *PageRevealedEvent) AggregateID() string { return e.SessionID }

// CriteriaChangedEvent is emitted when the user modifies the search itself.
type CriteriaChangedEvent struct {
	SessionID   string    `json:"session_id"`
	Destination string    `json:"destination"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	ChangedAt   time.Time `json:"changed_at"`
}

func (e *CriteriaChangedEvent) EventType() string   { return "search.criteria_changed" }
func (e *CriteriaChangedEvent) AggregateID() string { return e.SessionID }

// ListingSelectedEvent is emitted when a listing is picked for booking.
type ListingSelectedEvent struct {
	SessionID    string    `json:"session_id"`
	ListingID    string    `json:"listing_id"`
	NightlyPrice string    `json:"nightly_price"`
	Currency     string    `json:"currency"`
	Nights       int       `json:"nights"`
	StayTotal    string    `json:"stay_total"`
	SelectedAt   time.Time `json:"selected_at"`
}

func (e *ListingSelectedEvent) EventType() string   { return "search.listing_selected" }
func (e *ListingSelectedEvent) AggregateID() string { return e.SessionID }
