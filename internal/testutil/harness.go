package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// SessionTTL is the session lifetime used by the harness.
const SessionTTL = 30 * time.Minute

// Harness wires the in-memory fakes the way the server wires Spanner.
type Harness struct {
	Store  *Store
	Cache  *Cache
	API    *SearchAPI
	Clock  *clock.MockClock
	Policy domain.FilterPolicy
	Loader *session_flow.Loader
	Writer *session_flow.Writer
}

// NewHarness creates a harness whose search API answers with pool.
func NewHarness(pool ...domain.Listing) *Harness {
	h := &Harness{
		Store:  NewStore(),
		Cache:  NewCache(),
		API:    NewSearchAPI(pool...),
		Clock:  NewMockClock(),
		Policy: domain.DefaultFilterPolicy(),
	}
	h.Loader = session_flow.NewLoader(h.Store, h.Cache, h.Clock, h.Policy)
	h.Writer = session_flow.NewWriter(h.Store, h.Store.Outbox(), h.Store)
	return h
}

// SeedSession stores a session with pool loaded and returns its id.
// No outbox events are recorded for the seed.
func (h *Harness) SeedSession(t *testing.T, pool []domain.Listing) string {
	t.Helper()

	now := h.Clock.Now()
	session, err := domain.NewSearchSession(uuid.New().String(), Criteria(), now, SessionTTL)
	require.NoError(t, err)

	engine := domain.NewEngine(h.Policy)
	engine.Load(pool)
	session.RecordResults(engine, false, now)
	session.ClearEvents()

	h.Store.Put(session)
	require.NoError(t, h.Cache.Put(context.Background(), session.ID(), pool, SessionTTL))
	return session.ID()
}
