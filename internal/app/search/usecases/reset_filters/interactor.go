package reset_filters

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request identifies the session to reset.
type Request struct {
	SessionID string
}

// Interactor handles the reset filters use case.
type Interactor struct {
	loader *session_flow.Loader
	writer *session_flow.Writer
	clock  clock.Clock
}

// NewInteractor creates a new reset filters interactor.
func NewInteractor(loader *session_flow.Loader, writer *session_flow.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		loader: loader,
		writer: writer,
		clock:  clock,
	}
}

// Execute restores the load-time filters and recommended order.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.View, error) {
	session, engine, err := i.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	engine.ResetFilters()
	session.ResetFilters(engine, i.clock.Now())

	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	view := engine.CurrentView()
	return &view, nil
}
