package change_sort

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

	tests := []struct {
		name  string
		sort  string
		first string
	}{
		{"price high to low", "price_high", "h14"},
		{"price low to high", "price_low", "h00"},
		{"rating", "rating", "h14"},
		{"stars keeps pool order among equals", "stars", "h02"},
		{"empty means recommended", "", "h00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testutil.NewHarness()
			id := h.SeedSession(t, testutil.Pool(15))

			view, err := NewInteractor(h.Loader, h.Writer, h.Clock).Execute(ctx, &Request{SessionID: id, Sort: tt.sort})
			require.NoError(t, err)

			assert.Equal(t, tt.first, view.Listings[0].ID)
			assert.Equal(t, 1, view.Page)
			assert.Equal(t, []string{"search.sort_changed"}, h.Store.EventTypes())
		})
	}

	t.Run("unknown sort mode", func(t *testing.T) {
		h := testutil.NewHarness()
		id := h.SeedSession(t, testutil.Pool(15))

		_, err := NewInteractor(h.Loader, h.Writer, h.Clock).Execute(ctx, &Request{SessionID: id, Sort: "distance"})
		assert.ErrorIs(t, err, domain.ErrUnknownSortMode)
		assert.Equal(t, int64(0), h.Store.Session(id).Version())
		assert.Empty(t, h.Store.Events())
	})
}
