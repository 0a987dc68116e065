package load_more

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request identifies the session to page.
type Request struct {
	SessionID string
}

// Response carries only the listings revealed by this call.
type Response struct {
	Listings     []domain.Listing
	TotalMatched int
	HasMore      bool
	Page         int
}

// Interactor handles the load more use case.
type Interactor struct {
	loader *session_flow.Loader
	writer *session_flow.Writer
	clock  clock.Clock
}

// NewInteractor creates a new load more interactor.
func NewInteractor(loader *session_flow.Loader, writer *session_flow.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		loader: loader,
		writer: writer,
		clock:  clock,
	}
}

// Execute reveals the next page. Past the end it returns no listings and writes nothing.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	session, engine, err := i.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	revealed := engine.NextPage()
	session.AdvancePage(engine, len(revealed), i.clock.Now())

	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	view := engine.CurrentView()
	return &Response{
		Listings:     revealed,
		TotalMatched: view.TotalMatched,
		HasMore:      view.HasMore,
		Page:         view.Page,
	}, nil
}
