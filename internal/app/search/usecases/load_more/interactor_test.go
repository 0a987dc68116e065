package load_more

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/testutil"
)

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reveals the next page then nothing", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(15))
		interactor := NewInteractor(h.Loader, h.Writer, h.Clock)

		resp, err := interactor.Execute(ctx, &Request{SessionID: id})
		require.NoError(t, err)

		assert.Equal(t, []string{"h12", "h13", "h14"}, testutil.IDs(resp.Listings))
		assert.Equal(t, 15, resp.TotalMatched)
		assert.False(t, resp.HasMore)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, 2, h.Store.Session(id).Page())

		resp, err = interactor.Execute(ctx, &Request{SessionID: id})
		require.NoError(t, err)

		assert.NotNil(t, resp.Listings)
		assert.Empty(t, resp.Listings)
		assert.Equal(t, 2, resp.Page)
		assert.Equal(t, []string{"search.page_revealed"}, h.Store.EventTypes())
		assert.Equal(t, int64(1), h.Store.Session(id).Version())
	})

	t.Run("walks every matched listing exactly once", func(t *testing.T) {
		h := testutil.NewHarness()
		pool := testutil.Pool(40)
		id := h.SeedSession(t, pool)
		interactor := NewInteractor(h.Loader, h.Writer, h.Clock)

		seen := map[string]int{}
		for _, l := range pool[:12] {
			seen[l.ID]++
		}
		for {
			resp, err := interactor.Execute(ctx, &Request{SessionID: id})
			require.NoError(t, err)
			if len(resp.Listings) == 0 {
				break
			}
			for _, l := range resp.Listings {
				seen[l.ID]++
			}
		}

		assert.Len(t, seen, 40)
		for id, n := range seen {
			assert.Equal(t, 1, n, id)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		h := testutil.NewHarness()

		_, err := NewInteractor(h.Loader, h.Writer, h.Clock).Execute(ctx, &Request{SessionID: "missing"})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}
