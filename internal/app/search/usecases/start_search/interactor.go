package start_search

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request contains the data to start a search.
type Request struct {
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Rooms       []domain.Room
	Residency   string
	Currency    string
}

// Response carries the new session and its first page.
type Response struct {
	SessionID string
	Criteria  domain.SearchCriteria
	View      domain.View
	Demo      bool
}

// Interactor handles the start search use case.
type Interactor struct {
	api    contracts.SearchAPI
	cache  contracts.ResultCache
	writer *session_flow.Writer
	clock  clock.Clock
	policy domain.FilterPolicy
	ttl    time.Duration
}

// NewInteractor creates a new start search interactor.
func NewInteractor(
	api contracts.SearchAPI,
	cache contracts.ResultCache,
	writer *session_flow.Writer,
	clock clock.Clock,
	policy domain.FilterPolicy,
	ttl time.Duration,
) *Interactor {
	return &Interactor{
		api:    api,
		cache:  cache,
		writer: writer,
		clock:  clock,
		policy: policy,
		ttl:    ttl,
	}
}

// Execute validates the criteria, fetches the pool and persists a new session.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate input
	criteria, err := domain.NewSearchCriteria(req.Destination, req.CheckIn, req.CheckOut, req.Rooms, req.Residency, req.Currency)
	if err != nil {
		return nil, err
	}

	// 2. Create aggregate
	now := i.clock.Now()
	session, err := domain.NewSearchSession(uuid.New().String(), criteria, now, i.ttl)
	if err != nil {
		return nil, err
	}

	// 3. Fetch and load the pool
	result, err := i.api.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	engine := domain.NewEngine(i.policy)
	engine.Load(result.Listings)
	session.RecordResults(engine, result.Demo, now)

	// 4. Cache the pool, then commit the session with its events
	if err := i.cache.Put(ctx, session.ID(), result.Listings, i.ttl); err != nil {
		return nil, err
	}
	if err := i.writer.Insert(ctx, session); err != nil {
		_ = i.cache.Delete(ctx, session.ID())
		return nil, err
	}

	return &Response{
		SessionID: session.ID(),
		Criteria:  criteria,
		View:      engine.CurrentView(),
		Demo:      result.Demo,
	}, nil
}
