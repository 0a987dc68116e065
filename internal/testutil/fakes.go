package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/models/m_outbox"
	"github.com/light-bringer/staysearch-service/internal/models/m_search_session"
	"github.com/light-bringer/staysearch-service/internal/pkg/committer"
)

// Store is an in-memory stand-in for Spanner. It implements SessionRepository,
// OutboxRepository and Committer: repositories stage writes against the
// mutations they return and the committer applies the staged writes.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.SearchSession
	events   []*contracts.OutboxEvent
	staged   map[*spanner.Mutation]func()
	nextID   int

	// CommitErr, when set, fails every commit.
	CommitErr error
}

var (
	_ contracts.SessionRepository = (*Store)(nil)
	_ contracts.Committer         = (*Store)(nil)
)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.SearchSession),
		staged:   make(map[*spanner.Mutation]func()),
	}
}

func snapshot(s *domain.SearchSession, version int64) *domain.SearchSession {
	return domain.ReconstructSearchSession(
		s.ID(), s.Criteria(), s.Filters(), s.DefaultFilters(), s.Sort(), s.Page(),
		s.SelectedListingID(), s.ResultCount(), s.Demo(), version,
		s.CreatedAt(), s.UpdatedAt(), s.ExpiresAt(),
	)
}

func (f *Store) stage(table string, apply func()) *spanner.Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	mut := spanner.Delete(table, spanner.Key{fmt.Sprintf("staged-%d", f.nextID)})
	f.staged[mut] = apply
	return mut
}

// InsertMut stages a new session.
func (f *Store) InsertMut(session *domain.SearchSession) (*spanner.Mutation, error) {
	snap := snapshot(session, session.Version())
	return f.stage(m_search_session.TableName, func() { f.sessions[snap.ID()] = snap }), nil
}

// UpdateMut stages the session with its version bumped.
func (f *Store) UpdateMut(session *domain.SearchSession) (*spanner.Mutation, error) {
	if !session.Changes().HasChanges() {
		return nil, nil
	}
	snap := snapshot(session, session.Version()+1)
	return f.stage(m_search_session.TableName, func() { f.sessions[snap.ID()] = snap }), nil
}

// VersionCheck returns the lock for the session.
func (f *Store) VersionCheck(session *domain.SearchSession) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_search_session.TableName,
		Key:      spanner.Key{session.ID()},
		Column:   m_search_session.Version,
		Expected: session.Version(),
	}
}

// GetByID returns a fresh copy of the stored session.
func (f *Store) GetByID(_ context.Context, sessionID string) (*domain.SearchSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snapshot(s, s.Version()), nil
}

// Put seeds a session directly, bypassing the committer.
func (f *Store) Put(session *domain.SearchSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID()] = snapshot(session, session.Version())
}

// InsertEventMut stages an outbox event.
func (f *Store) InsertEventMut(event *contracts.OutboxEvent) *spanner.Mutation {
	return f.stage(m_outbox.TableName, func() { f.events = append(f.events, event) })
}

// EnrichEvent wraps a domain event as a pending outbox event.
func (f *Store) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.mu.Unlock()

	return &contracts.OutboxEvent{
		EventID:     fmt.Sprintf("evt-%d", id),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      m_outbox.StatusPending,
	}
}

// Apply runs the staged writes of every mutation in the plan.
func (f *Store) Apply(_ context.Context, plan *committer.CommitPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyLocked(plan)
}

// ApplyWithVersionCheck applies the plan when the stored version still matches.
func (f *Store) ApplyWithVersionCheck(_ context.Context, check committer.VersionCheck, plan *committer.CommitPlan) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := fmt.Sprint(check.Key[0])
	stored, ok := f.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if stored.Version() != check.Expected {
		return fmt.Errorf("%w: expected %d, found %d", committer.ErrVersionConflict, check.Expected, stored.Version())
	}
	return f.applyLocked(plan)
}

func (f *Store) applyLocked(plan *committer.CommitPlan) error {
	if f.CommitErr != nil {
		return f.CommitErr
	}
	for _, mut := range plan.Mutations() {
		apply, ok := f.staged[mut]
		if !ok {
			return errors.New("mutation was not staged by this store")
		}
		apply()
		delete(f.staged, mut)
	}
	return nil
}

// Events returns the committed outbox events.
func (f *Store) Events() []*contracts.OutboxEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*contracts.OutboxEvent(nil), f.events...)
}

// EventTypes returns the committed outbox event types in order.
func (f *Store) EventTypes() []string {
	events := f.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.EventType
	}
	return out
}

// Session returns the stored session or nil.
func (f *Store) Session(id string) *domain.SearchSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

// Outbox adapts the store to contracts.OutboxRepository, whose InsertMut
// collides with the session repository method of the same name.
func (f *Store) Outbox() contracts.OutboxRepository {
	return outboxAdapter{f}
}

type outboxAdapter struct{ store *Store }

func (a outboxAdapter) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	return a.store.InsertEventMut(event)
}

func (a outboxAdapter) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return a.store.EnrichEvent(event, payload)
}

// Cache is an in-memory ResultCache.
type Cache struct {
	mu    sync.Mutex
	pools map[string][]domain.Listing
	ttls  map[string]time.Duration

	// Err, when set, fails every call.
	Err error
}

var _ contracts.ResultCache = (*Cache)(nil)

// NewCache creates an empty Cache.
func NewCache() *Cache {
	return &Cache{
		pools: make(map[string][]domain.Listing),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *Cache) Put(_ context.Context, sessionID string, listings []domain.Listing, ttl time.Duration) error {
	if c.Err != nil {
		return c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools[sessionID] = append([]domain.Listing(nil), listings...)
	c.ttls[sessionID] = ttl
	return nil
}

func (c *Cache) Get(_ context.Context, sessionID string) ([]domain.Listing, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pool, ok := c.pools[sessionID]
	if !ok {
		return nil, domain.ErrResultsExpired
	}
	return append([]domain.Listing(nil), pool...), nil
}

func (c *Cache) Delete(_ context.Context, sessionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pools, sessionID)
	delete(c.ttls, sessionID)
	return nil
}

func (c *Cache) Ping(_ context.Context) error {
	return c.Err
}

// TTL returns the TTL a pool was stored with.
func (c *Cache) TTL(sessionID string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[sessionID]
}

// SearchAPI is a scripted SearchAPI.
type SearchAPI struct {
	mu sync.Mutex

	Result *contracts.SearchResult
	Err    error
	Calls  []domain.SearchCriteria
}

var _ contracts.SearchAPI = (*SearchAPI)(nil)

// NewSearchAPI returns a SearchAPI answering with the given listings.
func NewSearchAPI(listings ...domain.Listing) *SearchAPI {
	return &SearchAPI{Result: &contracts.SearchResult{Listings: listings}}
}

func (s *SearchAPI) Search(_ context.Context, criteria domain.SearchCriteria) (*contracts.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, criteria)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Result, nil
}
