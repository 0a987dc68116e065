package select_listing

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Request identifies the listing picked for booking.
type Request struct {
	SessionID string
	ListingID string
}

// Response is the booking summary of the selection.
type Response struct {
	Listing   domain.Listing
	Nights    int
	StayTotal *domain.Money
	Criteria  domain.SearchCriteria
}

// Interactor handles the select listing use case.
type Interactor struct {
	loader *session_flow.Loader
	writer *session_flow.Writer
	clock  clock.Clock
}

// NewInteractor creates a new select listing interactor.
func NewInteractor(loader *session_flow.Loader, writer *session_flow.Writer, clock clock.Clock) *Interactor {
	return &Interactor{
		loader: loader,
		writer: writer,
		clock:  clock,
	}
}

// Execute records the selection. Any listing of the pool may be selected,
// including ones hidden by the active filters.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	session, engine, err := i.loader.Load(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	listing, ok := engine.Listing(req.ListingID)
	if !ok {
		return nil, domain.ErrListingNotFound
	}

	session.SelectListing(listing, i.clock.Now())

	if err := i.writer.Update(ctx, session); err != nil {
		return nil, err
	}

	criteria := session.Criteria()
	return &Response{
		Listing:   listing,
		Nights:    criteria.Nights(),
		StayTotal: listing.StayTotal(criteria.Nights()),
		Criteria:  criteria,
	}, nil
}
