package apply_filters

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request contains the filter changes. Nil fields of the patch are left as they are.
type Request struct {
	SessionID string
	Patch     domain.FilterPatch
}

// Interactor handles the apply filters use case.
type Interactor struct {
	loader *session_flow.Loader
	writer *session_flow.Writer
	clock  clock.Clock
}

// NewInteractor creates a new apply filters interactor.
func NewInteractor(loader *session_flow.Loader, writer *session_flow.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		loader: loader,
		writer: writer,
		clock:  clock,
	}
}

// Execute merges the patch into the active filters and returns the first page.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.View, error) {
	session, engine, err := i.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	engine.SetFilter(req.Patch)
	session.ApplyFilters(engine, i.clock.Now())

	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	view := engine.CurrentView()
	return &view, nil
}
