package domain

import (
	"time"
)

const dateLayout = "2006-01-02"

// SearchSession is the aggregate root for one active search.
// It persists the criteria and the user's view state; the pool itself lives in a result cache.
type SearchSession struct {
	id                string
	criteria          SearchCriteria
	filters           FilterCriteria
	defaultFilters    FilterCriteria
	sort              SortMode
	page              int
	selectedListingID string
	resultCount       int
	demo              bool
	version           int64
	createdAt         time.Time
	updatedAt         time.Time
	expiresAt         time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewSearchSession creates a session for validated criteria.
func NewSearchSession(id string, criteria SearchCriteria, now time.Time, ttl time.Duration) (*SearchSession, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	s := &SearchSession{
		id:        id,
		criteria:  criteria,
		filters:   FilterCriteria{MinGuestRating: NoMinGuestRating},
		sort:      SortRecommended,
		page:      1,
		createdAt: now,
		updatedAt: now,
		expiresAt: now.Add(ttl),
		changes:   NewChangeTracker(),
		events:    make([]DomainEvent, 0),
	}
	s.defaultFilters = s.filters.Copy()

	s.changes.MarkDirty(FieldCriteria, FieldFilters, FieldSort, FieldPage, FieldResultCount, FieldExpiresAt)

	s.recordEvent(&SearchStartedEvent{
		SessionID:   s.id,
		Destination: criteria.Destination,
		CheckIn:     criteria.CheckIn.Format(dateLayout),
		CheckOut:    criteria.CheckOut.Format(dateLayout),
		Rooms:       len(criteria.Rooms),
		Adults:      criteria.TotalAdults(),
		Children:    len(criteria.ChildAges()),
		StartedAt:   now,
	})

	return s, nil
}

// ReconstructSearchSession reconstitutes a session loaded from storage.
func ReconstructSearchSession(
	id string,
	criteria SearchCriteria,
	filters, defaultFilters FilterCriteria,
	sort SortMode,
	page int,
	selectedListingID string,
	resultCount int,
	demo bool,
	version int64,
	createdAt, updatedAt, expiresAt time.Time,
) *SearchSession {
	return &SearchSession{
		id:                id,
		criteria:          criteria,
		filters:           filters,
		defaultFilters:    defaultFilters,
		sort:              sort,
		page:              page,
		selectedListingID: selectedListingID,
		resultCount:       resultCount,
		demo:              demo,
		version:           version,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		expiresAt:         expiresAt,
		changes:           NewChangeTracker(),
		events:            make([]DomainEvent, 0),
	}
}

// Getters
func (s *SearchSession) ID() string                     { return s.id }
func (s *SearchSession) Criteria() SearchCriteria       { return s.criteria }
func (s *SearchSession) Filters() FilterCriteria        { return s.filters.Copy() }
func (s *SearchSession) DefaultFilters() FilterCriteria { return s.defaultFilters.Copy() }
func (s *SearchSession) Sort() SortMode                 { return s.sort }
func (s *SearchSession) Page() int                      { return s.page }
func (s *SearchSession) SelectedListingID() string      { return s.selectedListingID }
func (s *SearchSession) ResultCount() int               { return s.resultCount }
func (s *SearchSession) Demo() bool                     { return s.demo }
func (s *SearchSession) Version() int64                 { return s.version }
func (s *SearchSession) CreatedAt() time.Time           { return s.createdAt }
func (s *SearchSession) UpdatedAt() time.Time           { return s.updatedAt }
func (s *SearchSession) ExpiresAt() time.Time           { return s.expiresAt }
func (s *SearchSession) Changes() *ChangeTracker        { return s.changes }
func (s *SearchSession) DomainEvents() []DomainEvent    { return s.events }

// IsExpired reports whether the session outlived its TTL.
func (s *SearchSession) IsExpired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

// Engine rebuilds a results engine over the cached pool with the session's view state.
func (s *SearchSession) Engine(pool []Listing, policy FilterPolicy) *Engine {
	e := NewEngine(policy)
	e.Load(pool)
	e.Restore(s.filters, s.sort, s.page)
	return e
}

// RecordResults captures the state of a freshly loaded engine.
func (s *SearchSession) RecordResults(e *Engine, demo bool, now time.Time) {
	s.capture(e, now)
	s.defaultFilters = e.DefaultFilters()
	s.resultCount = e.PoolSize()
	s.demo = demo
	s.changes.MarkDirty(FieldResultCount, FieldDemo)

	s.recordEvent(&ResultsLoadedEvent{
		SessionID:    s.id,
		PoolSize:     s.resultCount,
		TotalMatched: e.CurrentView().TotalMatched,
		Demo:         demo,
		LoadedAt:     now,
	})
}

// ApplyFilters captures the engine state after a filter change.
func (s *SearchSession) ApplyFilters(e *Engine, now time.Time) {
	s.capture(e, now)

	f := e.Filters()
	event := &FiltersAppliedEvent{
		SessionID:      s.id,
		Stars:          f.Stars.Stars(),
		NameQuery:      f.NameQuery,
		Amenities:      f.Amenities,
		MealPlans:      f.MealPlans,
		RefundableOnly: f.RefundableOnly,
		TotalMatched:   e.CurrentView().TotalMatched,
		AppliedAt:      now,
	}
	if f.MaxPrice != nil {
		event.MaxPrice = f.MaxPrice.Exact()
	}
	if f.HasMinGuestRating() {
		rating := f.MinGuestRating
		event.MinGuestRating = &rating
	}
	s.recordEvent(event)
}

// ResetFilters captures the engine state after its filters were reset.
func (s *SearchSession) ResetFilters(e *Engine, now time.Time) {
	s.capture(e, now)
	s.recordEvent(&FiltersResetEvent{
		SessionID:    s.id,
		TotalMatched: e.CurrentView().TotalMatched,
		ResetAt:      now,
	})
}

// ChangeSort captures the engine state after a sort change.
func (s *SearchSession) ChangeSort(e *Engine, now time.Time) {
	s.capture(e, now)
	s.recordEvent(&SortChangedEvent{
		SessionID: s.id,
		Sort:      string(e.Sort()),
		ChangedAt: now,
	})
}

// AdvancePage captures a page advance. Nothing is recorded when no listing was revealed.
func (s *SearchSession) AdvancePage(e *Engine, revealed int, now time.Time) {
	if revealed == 0 {
		return
	}
	s.capture(e, now)
	s.recordEvent(&PageRevealedEvent{
		SessionID:  s.id,
		Page:       e.Page(),
		Revealed:   revealed,
		HasMore:    e.CurrentView().HasMore,
		RevealedAt: now,
	})
}

// ReplaceCriteria swaps in new criteria. The previous selection is dropped and
// the expiry renewed; the caller loads a fresh pool afterwards.
func (s *SearchSession) ReplaceCriteria(criteria SearchCriteria, now time.Time, ttl time.Duration) error {
	if err := criteria.Validate(); err != nil {
		return err
	}

	s.criteria = criteria
	s.selectedListingID = ""
	s.expiresAt = now.Add(ttl)
	s.updatedAt = now
	s.changes.MarkDirty(FieldCriteria, FieldSelectedListing, FieldExpiresAt)

	s.recordEvent(&CriteriaChangedEvent{
		SessionID:   s.id,
		Destination: criteria.Destination,
		CheckIn:     criteria.CheckIn.Format(dateLayout),
		CheckOut:    criteria.CheckOut.Format(dateLayout),
		ChangedAt:   now,
	})
	return nil
}

// SelectListing records the listing the user picked for booking.
func (s *SearchSession) SelectListing(l Listing, now time.Time) {
	nights := s.criteria.Nights()

	s.selectedListingID = l.ID
	s.updatedAt = now
	s.changes.MarkDirty(FieldSelectedListing)

	s.recordEvent(&ListingSelectedEvent{
		SessionID:    s.id,
		ListingID:    l.ID,
		NightlyPrice: l.Price().String(),
		Currency:     l.Currency,
		Nights:       nights,
		StayTotal:    l.StayTotal(nights).String(),
		SelectedAt:   now,
	})
}

func (s *SearchSession) capture(e *Engine, now time.Time) {
	s.filters = e.Filters()
	s.sort = e.Sort()
	s.page = e.Page()
	s.updatedAt = now
	s.changes.MarkDirty(FieldFilters, FieldSort, FieldPage)
}

func (s *SearchSession) recordEvent(event DomainEvent) {
	s.events = append(s.events, event)
}

// ClearEvents drops recorded events once they have been handed to the outbox.
func (s *SearchSession) ClearEvents() {
	s.events = make([]DomainEvent, 0)
}
