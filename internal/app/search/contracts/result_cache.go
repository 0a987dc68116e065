package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// ResultCache keeps the unfiltered pool of each session.
type ResultCache interface {
	Put(ctx context.Context, sessionID string, listings []domain.Listing, ttl time.Duration) error

	// Get returns domain.ErrResultsExpired when nothing is cached for the session.
	Get(ctx context.Context, sessionID string) ([]domain.Listing, error)

	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}
