package modify_search

import (
	"context"
	"time"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request contains the replacement criteria for a session.
type Request struct {
	SessionID   string
	Destination string
	CheckIn     time.Time
	CheckOut    time.Time
	Rooms       []domain.Room
	Residency   string
	Currency    string
}

// Response carries the reloaded first page.
type Response struct {
	Criteria domain.SearchCriteria
	View     domain.View
	Demo     bool
}

// Interactor handles the modify search use case.
type Interactor struct {
	repo   contracts.SessionRepository
	api    contracts.SearchAPI
	cache  contracts.ResultCache
	writer *session_flow.Writer
	clock  clock.Clock
	policy domain.FilterPolicy
	ttl    time.Duration
}

// NewInteractor creates a new modify search interactor.
func NewInteractor(
	repo contracts.SessionRepository,
	api contracts.SearchAPI,
	cache contracts.ResultCache,
	writer *session_flow.Writer,
	clock clock.Clock,
	policy domain.FilterPolicy,
	ttl time.Duration,
) *Interactor {
	return &Interactor{
		repo:   repo,
		api:    api,
		cache:  cache,
		writer: writer,
		clock:  clock,
		policy: policy,
		ttl:    ttl,
	}
}

// Execute swaps the criteria of a session and reloads its pool.
// Expired sessions may be modified: new criteria renew the session.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Load aggregate
	session, err := i.repo.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	criteria, err := domain.NewSearchCriteria(req.Destination, req.CheckIn, req.CheckOut, req.Rooms, req.Residency, req.Currency)
	if err != nil {
		return nil, err
	}

	// 2. Call domain method
	now := i.clock.Now()
	if err := session.ReplaceCriteria(criteria, now, i.ttl); err != nil {
		return nil, err
	}

	// 3. Fetch and load the new pool
	result, err := i.api.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	engine := domain.NewEngine(i.policy)
	engine.Load(result.Listings)
	session.RecordResults(engine, result.Demo, now)

	// 4. Cache and commit
	if err := i.cache.Put(ctx, session.ID(), result.Listings, i.ttl); err != nil {
		return nil, err
	}
	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	return &Response{
		Criteria: criteria,
		View:     engine.CurrentView(),
		Demo:     result.Demo,
	}, nil
}
