package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

func samplePool() []domain.Listing {
	return []domain.Listing{
		{
			ID:            "h-1",
			Name:          "Sea Breeze",
			StarRating:    4,
			GuestRating:   4.3,
			ReviewCount:   812,
			NightlyPrice:  domain.NewMoneyFromInt(5400),
			Currency:      "INR",
			OriginalPrice: domain.NewMoneyFromInt(6000),
			Amenities:     []string{"wifi", "pool"},
			MealPlan:      "breakfast",
			Coordinates:   &domain.Coordinates{Latitude: 15.49, Longitude: 73.82},
			Refundable:    true,
		},
		{ID: "h-2", Name: "No Price Inn", StarRating: 2},
	}
}

func TestPoolCodec(t *testing.T) {
	t.Run("round trips listings", func(t *testing.T) {
		data, err := encodePool(samplePool())
		require.NoError(t, err)

		got, err := decodePool(data)
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "Sea Breeze", got[0].Name)
		assert.True(t, got[0].NightlyPrice.Equals(domain.NewMoneyFromInt(5400)))
		assert.True(t, got[0].OriginalPrice.Equals(domain.NewMoneyFromInt(6000)))
		assert.Equal(t, []string{"wifi", "pool"}, got[0].Amenities)
		require.NotNil(t, got[0].Coordinates)
		assert.InDelta(t, 73.82, got[0].Coordinates.Longitude, 0.0001)
		assert.True(t, got[0].Refundable)

		assert.Nil(t, got[1].NightlyPrice)
		assert.Nil(t, got[1].Coordinates)
		assert.True(t, got[1].Price().IsZero())
	})

	t.Run("keeps prices exact", func(t *testing.T) {
		kwd, err := domain.ParseMoney("12.345")
		require.NoError(t, err)
		third, err := domain.NewMoney(1, 3)
		require.NoError(t, err)

		data, err := encodePool([]domain.Listing{
			{ID: "h-1", NightlyPrice: kwd, OriginalPrice: third},
		})
		require.NoError(t, err)

		got, err := decodePool(data)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].NightlyPrice.Equals(kwd), "got %s", got[0].NightlyPrice.Exact())
		assert.True(t, got[0].OriginalPrice.Equals(third), "got %s", got[0].OriginalPrice.Exact())
	})

	t.Run("unparsable price is an error", func(t *testing.T) {
		_, err := decodePool([]byte(`{"v":2,"listings":[{"id":"h-1","price":"cheap"}]}`))
		assert.Error(t, err)
	})

	t.Run("unknown format version is a miss", func(t *testing.T) {
		_, err := decodePool([]byte(`{"v":99,"listings":[]}`))
		assert.ErrorIs(t, err, domain.ErrResultsExpired)
	})

	t.Run("garbage is an error", func(t *testing.T) {
		_, err := decodePool([]byte("not json"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrResultsExpired)
	})
}

func TestCriteriaCodec(t *testing.T) {
	in, err := domain.NewSearchCriteria("Goa",
		time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 23, 0, 0, 0, 0, time.UTC),
		[]domain.Room{{Adults: 2, ChildAges: []int{7}}, {Adults: 1}}, "IN", "inr")
	require.NoError(t, err)

	raw, err := encodeCriteria(in)
	require.NoError(t, err)
	assert.Contains(t, raw, `"check_in":"2026-12-20"`)

	out, err := decodeCriteria(raw)
	require.NoError(t, err)
	assert.Equal(t, in.Destination, out.Destination)
	assert.True(t, in.CheckIn.Equal(out.CheckIn))
	assert.Equal(t, 3, out.Nights())
	assert.Equal(t, in.Rooms, out.Rooms)
	assert.Equal(t, "in", out.Residency)
	assert.Equal(t, "INR", out.Currency)

	_, err = decodeCriteria(`{"check_in":"20/12/2026"}`)
	assert.Error(t, err)
}

func TestFiltersCodec(t *testing.T) {
	active := domain.FilterCriteria{
		MaxPrice:       domain.NewMoneyFromInt(9000),
		Stars:          domain.NewStarSet(4, 5),
		MinGuestRating: 4.0,
		NameQuery:      "sea",
		Amenities:      []string{"pool"},
		RefundableOnly: true,
	}
	defaults := domain.FilterCriteria{
		MaxPrice:       domain.NewMoneyFromInt(17000),
		Stars:          domain.NewStarSet(3, 4, 5),
		MinGuestRating: domain.NoMinGuestRating,
	}

	raw, err := encodeFilters(active, defaults)
	require.NoError(t, err)

	gotActive, gotDefaults, err := decodeFilters(raw)
	require.NoError(t, err)

	assert.True(t, gotActive.MaxPrice.Equals(active.MaxPrice))
	assert.Equal(t, []int{4, 5}, gotActive.Stars.Stars())
	assert.Equal(t, 4.0, gotActive.MinGuestRating)
	assert.Equal(t, "sea", gotActive.NameQuery)
	assert.True(t, gotActive.RefundableOnly)

	assert.False(t, gotDefaults.HasMinGuestRating())
	assert.Equal(t, domain.NoMinGuestRating, gotDefaults.MinGuestRating)
	assert.Equal(t, "3,4,5", gotDefaults.Stars.String())

	t.Run("fractional max price survives", func(t *testing.T) {
		maxPrice, err := domain.ParseMoney("4999.905")
		require.NoError(t, err)

		raw, err := encodeFilters(domain.FilterCriteria{MaxPrice: maxPrice}, defaults)
		require.NoError(t, err)

		got, _, err := decodeFilters(raw)
		require.NoError(t, err)
		assert.True(t, got.MaxPrice.Equals(maxPrice), "got %s", got.MaxPrice.Exact())
	})

	t.Run("reads amounts stored as numbers", func(t *testing.T) {
		got, _, err := decodeFilters(`{"active":{"max_price":4999.90,"stars":[3]},"defaults":{"stars":[3]}}`)
		require.NoError(t, err)

		want, err := domain.ParseMoney("4999.90")
		require.NoError(t, err)
		assert.True(t, got.MaxPrice.Equals(want))
	})
}
