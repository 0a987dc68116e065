package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/pkg/committer"
)

// SessionRepository persists SearchSession aggregates.
// Writes are returned as mutations so usecases can commit them with outbox events.
type SessionRepository interface {
	// InsertMut creates a mutation for a new session.
	InsertMut(session *domain.SearchSession) (*spanner.Mutation, error)

	// UpdateMut creates a mutation for the dirty fields of a session, or nil when nothing changed.
	UpdateMut(session *domain.SearchSession) (*spanner.Mutation, error)

	// VersionCheck describes the optimistic lock guarding an update of the session.
	VersionCheck(session *domain.SearchSession) committer.VersionCheck

	// GetByID loads a session. It returns domain.ErrSessionNotFound when absent.
	GetByID(ctx context.Context, sessionID string) (*domain.SearchSession, error)
}
