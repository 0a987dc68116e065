package contracts

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// SearchResult is the candidate pool for one search.
// Demo is set when the listings are generated samples rather than live inventory.
type SearchResult struct {
	Listings []domain.Listing
	Demo     bool
}

// SearchAPI fetches the unfiltered pool for a destination and stay.
type SearchAPI interface {
	Search(ctx context.Context, criteria domain.SearchCriteria) (*SearchResult, error)
}
