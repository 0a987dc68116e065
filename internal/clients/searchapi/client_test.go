package searchapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testCriteria(t *testing.T) domain.SearchCriteria {
	t.Helper()
	c, err := domain.NewSearchCriteria("Goa",
		time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 22, 0, 0, 0, 0, time.UTC),
		[]domain.Room{{Adults: 2, ChildAges: []int{5}}, {Adults: 1}}, "in", "INR")
	require.NoError(t, err)
	return c
}

func newTestClient(url string, demo bool) *Client {
	return NewClient(Config{BaseURL: url + "/", Timeout: 2 * time.Second, DemoFallback: demo}, quietLogger())
}

func TestClient_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the search request and normalizes hotels", func(t *testing.T) {
		var got searchRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, searchPath, r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

			_, _ = io.WriteString(w, `{"success":true,"data":{"hotels":[
				{"id":101,"name":" Sea Breeze ","star_rating":"4","guest_rating":"4.66","review_count":"120","price":"5400.5","amenities":["wifi"],"refundable":"true","latitude":15.4,"longitude":"73.8"},
				{"id":"b","guest_rating":7,"star_rating":9,"rates":[{"price":3000}],"images":["https://img/1.jpg"]},
				{"name":"missing id","price":100},
				{"id":"c","guest_rating":-2,"star_rating":null,"price":"n/a"}
			]}}`)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, false).Search(ctx, testCriteria(t))
		require.NoError(t, err)

		assert.Equal(t, "Goa", got.Destination)
		assert.Equal(t, "2026-12-20", got.CheckIn)
		assert.Equal(t, "2026-12-22", got.CheckOut)
		assert.Equal(t, 3, got.Adults)
		assert.Equal(t, []int{5}, got.ChildrenAges)
		assert.Equal(t, 2, got.Rooms)
		assert.Equal(t, 10000, got.Radius)
		assert.Equal(t, "INR", got.Currency)
		assert.Equal(t, "in", got.Residency)

		assert.False(t, result.Demo)
		require.Len(t, result.Listings, 3)

		first := result.Listings[0]
		assert.Equal(t, "101", first.ID)
		assert.Equal(t, "Sea Breeze", first.Name)
		assert.Equal(t, 4, first.StarRating)
		assert.Equal(t, 4.7, first.GuestRating)
		assert.Equal(t, 120, first.ReviewCount)
		assert.Equal(t, "5400.50", first.NightlyPrice.String())
		assert.Equal(t, "INR", first.Currency)
		assert.True(t, first.Refundable)
		require.NotNil(t, first.Coordinates)
		assert.Equal(t, 73.8, first.Coordinates.Longitude)

		second := result.Listings[1]
		assert.Equal(t, 5, second.StarRating)
		assert.Equal(t, 5.0, second.GuestRating)
		assert.Equal(t, "3000.00", second.NightlyPrice.String())
		assert.Equal(t, "https://img/1.jpg", second.ImageURL)
		assert.NotNil(t, second.Amenities)

		third := result.Listings[2]
		assert.Equal(t, 0, third.StarRating)
		assert.Equal(t, 0.0, third.GuestRating)
		assert.Nil(t, third.NightlyPrice)
	})

	t.Run("accepts a top-level hotels array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"hotels":[{"id":"x","price":2500}]}`)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, false).Search(ctx, testCriteria(t))
		require.NoError(t, err)
		require.Len(t, result.Listings, 1)
		assert.Equal(t, "x", result.Listings[0].ID)
	})

	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"server error", http.StatusBadGateway, "upstream down", domain.ErrSearchUnavailable},
		{"client error", http.StatusBadRequest, `{"error":"bad dates"}`, domain.ErrSearchRejected},
		{"explicit failure", http.StatusOK, `{"success":false,"error":"destination not found"}`, domain.ErrSearchRejected},
		{"malformed body", http.StatusOK, `{"hotels":`, domain.ErrSearchUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL, false).Search(ctx, testCriteria(t))
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("opens after three consecutive failures", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(server.URL, false)
		for i := 0; i < 3; i++ {
			_, err := client.Search(ctx, testCriteria(t))
			require.ErrorIs(t, err, domain.ErrSearchUnavailable)
		}

		_, err := client.Search(ctx, testCriteria(t))
		assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
		assert.Contains(t, err.Error(), "circuit breaker is open")
		assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	})

	t.Run("rejections do not trip the breaker", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client := newTestClient(server.URL, false)
		for i := 0; i < 5; i++ {
			_, err := client.Search(ctx, testCriteria(t))
			require.ErrorIs(t, err, domain.ErrSearchRejected)
		}
		assert.Equal(t, int32(5), atomic.LoadInt32(&hits))
	})
}

func TestClient_DemoFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("serves demo listings when the backend fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, true).Search(ctx, testCriteria(t))
		require.NoError(t, err)
		assert.True(t, result.Demo)
		assert.Len(t, result.Listings, DemoCount)
	})

	t.Run("serves demo listings for an empty result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":true,"data":{"hotels":[]}}`)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, true).Search(ctx, testCriteria(t))
		require.NoError(t, err)
		assert.True(t, result.Demo)
	})

	t.Run("disabled fallback returns the empty pool", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success":true,"data":{"hotels":[]}}`)
		}))
		defer server.Close()

		result, err := newTestClient(server.URL, false).Search(ctx, testCriteria(t))
		require.NoError(t, err)
		assert.False(t, result.Demo)
		assert.Empty(t, result.Listings)
	})
}

func TestDemoListings(t *testing.T) {
	first := DemoListings("Goa", DemoCount)
	again := DemoListings(" goa ", DemoCount)
	other := DemoListings("Pune", DemoCount)

	require.Len(t, first, DemoCount)
	for i := range first {
		assert.Equal(t, first[i].ID, again[i].ID)
		assert.True(t, first[i].NightlyPrice.Equals(again[i].NightlyPrice))
		assert.Equal(t, first[i].StarRating, again[i].StarRating)
	}

	differs := false
	for i := range first {
		if !first[i].NightlyPrice.Equals(other[i].NightlyPrice) {
			differs = true
		}
	}
	assert.True(t, differs)

	for _, l := range first {
		assert.GreaterOrEqual(t, l.StarRating, 3)
		assert.LessOrEqual(t, l.StarRating, 5)
		assert.GreaterOrEqual(t, l.GuestRating, 3.0)
		assert.LessOrEqual(t, l.GuestRating, 5.0)
		assert.NotEmpty(t, l.Amenities)
	}

	assert.Equal(t, "The Grand Palace 2", DemoListings("Goa", 13)[12].Name)
}

func TestClient_Health(t *testing.T) {
	status := int32(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, healthPath, r.URL.Path)
		w.WriteHeader(int(atomic.LoadInt32(&status)))
	}))
	defer server.Close()

	client := newTestClient(server.URL, false)
	assert.NoError(t, client.Health(context.Background()))

	atomic.StoreInt32(&status, http.StatusServiceUnavailable)
	assert.ErrorIs(t, client.Health(context.Background()), domain.ErrSearchUnavailable)
}
