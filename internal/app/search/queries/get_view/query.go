package get_view

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
)

// Request contains the session to render.
type Request struct {
	SessionID string
}

// Summary describes the search behind the view.
type Summary struct {
	SessionID         string
	Criteria          domain.SearchCriteria
	Nights            int
	GuestSummary      string
	Filters           domain.FilterCriteria
	DefaultFilters    domain.FilterCriteria
	Sort              domain.SortMode
	SelectedListingID string
	ResultCount       int
	Demo              bool
}

// Response is the current view plus its summary.
type Response struct {
	View    domain.View
	Summary Summary
}

// Query handles the get view query use case.
type Query struct {
	loader *session_flow.Loader
}

// NewQuery creates a new get view query.
func NewQuery(loader *session_flow.Loader) *Query {
	return &Query{
		loader: loader,
	}
}

// Execute rebuilds the view of a session without changing it.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	session, engine, err := q.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	criteria := session.Criteria()
	return &Response{
		View: engine.CurrentView(),
		Summary: Summary{
			SessionID:         session.ID(),
			Criteria:          criteria,
			Nights:            criteria.Nights(),
			GuestSummary:      criteria.GuestSummary(),
			Filters:           engine.Filters(),
			DefaultFilters:    engine.DefaultFilters(),
			Sort:              engine.Sort(),
			SelectedListingID: session.SelectedListingID(),
			ResultCount:       session.ResultCount(),
			Demo:              session.Demo(),
		},
	}, nil
}
