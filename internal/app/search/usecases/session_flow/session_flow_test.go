package session_flow_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/usecases/session_flow"
	"github.com/light-bringer/staysearch-service/internal/testutil"
)

func TestLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("restores persisted view state", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(30))

		session, engine, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)
		engine.SetSort(domain.SortPriceDescending)
		engine.NextPage()
		session.ChangeSort(engine, h.Clock.Now())
		require.NoError(t, h.Writer.Update(ctx, session))

		_, restored, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.SortPriceDescending, restored.Sort())
		assert.Equal(t, 2, restored.Page())
		assert.Len(t, restored.CurrentView().Listings, 24)
	})

	t.Run("expiry is inclusive", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(3))
		h.Clock.Advance(testutil.SessionTTL)

		_, _, err := h.Loader.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSessionExpired)
	})

	t.Run("cache failures pass through", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(3))
		h.Cache.Err = errors.New("redis: connection refused")

		_, _, err := h.Loader.Load(ctx, id)
		assert.EqualError(t, err, "redis: connection refused")
	})
}

func TestWriter_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("second writer of the same version loses", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(15))

		first, firstEngine, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)
		second, secondEngine, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)

		firstEngine.SetSort(domain.SortRatingDescending)
		first.ChangeSort(firstEngine, h.Clock.Now())
		require.NoError(t, h.Writer.Update(ctx, first))

		secondEngine.SetSort(domain.SortPriceAscending)
		second.ChangeSort(secondEngine, h.Clock.Now())
		err = h.Writer.Update(ctx, second)

		assert.ErrorIs(t, err, domain.ErrConcurrentModification)
		assert.Equal(t, domain.SortRatingDescending, h.Store.Session(id).Sort())
		assert.Len(t, h.Store.Events(), 1)
	})

	t.Run("clean session writes nothing", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(3))

		session, _, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)
		require.NoError(t, h.Writer.Update(ctx, session))

		assert.Equal(t, int64(0), h.Store.Session(id).Version())
	})

	t.Run("events are cleared after commit", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(3))

		session, engine, err := h.Loader.Load(ctx, id)
		require.NoError(t, err)
		engine.ResetFilters()
		session.ResetFilters(engine, h.Clock.Now())
		require.NoError(t, h.Writer.Update(ctx, session))

		assert.Empty(t, session.DomainEvents())
	})
}

func TestSerializeEvent(t *testing.T) {
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	payload, err := session_flow.SerializeEvent(&domain.SortChangedEvent{SessionID: "s-1", Sort: "rating", ChangedAt: at})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, "s-1", decoded["session_id"])
	assert.Equal(t, "rating", decoded["sort"])
}
