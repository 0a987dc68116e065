package start_search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/testutil"
)

func newInteractor(h *testutil.Harness) *Interactor {
	return NewInteractor(h.API, h.Cache, h.Writer, h.Clock, h.Policy, testutil.SessionTTL)
}

func validRequest() *Request {
	return &Request{
		Destination: "  Goa ",
		CheckIn:     time.Date(2026, 12, 20, 14, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 12, 22, 11, 0, 0, 0, time.UTC),
		Rooms:       []domain.Room{{Adults: 2, ChildAges: []int{6}}},
		Currency:    "inr",
	}
}

func TestInteractor_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("creates session with the first page", func(t *testing.T) {
		h := testutil.NewHarness(testutil.Pool(15)...)

		resp, err := newInteractor(h).Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.NotEmpty(t, resp.SessionID)
		assert.Equal(t, "Goa", resp.Criteria.Destination)
		assert.Equal(t, "INR", resp.Criteria.Currency)
		assert.Len(t, resp.View.Listings, 12)
		assert.Equal(t, 15, resp.View.TotalMatched)
		assert.True(t, resp.View.HasMore)
		assert.False(t, resp.Demo)

		stored := h.Store.Session(resp.SessionID)
		require.NotNil(t, stored)
		assert.Equal(t, 15, stored.ResultCount())
		assert.Equal(t, "17000.00", stored.DefaultFilters().MaxPrice.String())
		assert.Equal(t, testutil.Now.Add(testutil.SessionTTL), stored.ExpiresAt())

		assert.Equal(t, []string{"search.started", "search.results_loaded"}, h.Store.EventTypes())
		assert.Equal(t, testutil.SessionTTL, h.Cache.TTL(resp.SessionID))

		require.Len(t, h.API.Calls, 1)
		assert.Equal(t, []int{6}, h.API.Calls[0].ChildAges())
	})

	t.Run("flags demo results", func(t *testing.T) {
		h := testutil.NewHarness()
		h.API.Result = &contracts.SearchResult{Listings: testutil.Pool(3), Demo: true}

		resp, err := newInteractor(h).Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.True(t, resp.Demo)
		assert.True(t, h.Store.Session(resp.SessionID).Demo())
	})

	t.Run("empty pool", func(t *testing.T) {
		h := testutil.NewHarness()

		resp, err := newInteractor(h).Execute(ctx, validRequest())
		require.NoError(t, err)

		assert.Empty(t, resp.View.Listings)
		assert.Equal(t, 0, resp.View.TotalMatched)
		assert.False(t, resp.View.HasMore)
	})

	t.Run("rejects invalid criteria before searching", func(t *testing.T) {
		h := testutil.NewHarness(testutil.Pool(3)...)
		req := validRequest()
		req.CheckOut = req.CheckIn

		_, err := newInteractor(h).Execute(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidStayDates)
		assert.ErrorIs(t, err, domain.ErrInvalidCriteria)
		assert.Empty(t, h.API.Calls)
		assert.Empty(t, h.Store.Events())
	})

	t.Run("propagates search failures", func(t *testing.T) {
		h := testutil.NewHarness()
		h.API.Err = domain.ErrSearchUnavailable

		_, err := newInteractor(h).Execute(ctx, validRequest())
		assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
		assert.Empty(t, h.Store.Events())
	})

	t.Run("drops the cached pool when the commit fails", func(t *testing.T) {
		h := testutil.NewHarness(testutil.Pool(3)...)
		h.Store.CommitErr = errors.New("spanner unavailable")

		_, err := newInteractor(h).Execute(ctx, validRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to commit transaction")

		require.Len(t, h.API.Calls, 1)
		assert.Empty(t, h.Store.Events())
	})
}
