package change_sort

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request contains the wire name of the sort mode, e.g. "price_low".
type Request struct {
	SessionID string
	Sort      string
}

// Interactor handles the change sort use case.
type Interactor struct {
	loader *session_flow.Loader
	writer *session_flow.Writer
	clock  clock.Clock
}

// NewInteractor creates a new change sort interactor.
func NewInteractor(loader *session_flow.Loader, writer *session_flow.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		loader: loader,
		writer: writer,
		clock:  clock,
	}
}

// Execute re-sorts the matched listings and returns the first page.
// Unknown sort modes are rejected before the session is touched.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.View, error) {
	mode, err := domain.ParseSortMode(req.Sort)
	if err != nil {
		return nil, err
	}

	session, engine, err := i.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	engine.SetSort(mode)
	session.ChangeSort(engine, i.clock.Now())

	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	view := engine.CurrentView()
	return &view, nil
}
