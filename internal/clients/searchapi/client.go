package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

const (
	searchPath    = "/api/hotels/search/destination"
	healthPath    = "/health"
	searchRadius  = 10000
	maxErrorBytes = 512
)

// Config holds the client settings.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	DemoFallback bool
}

// Client calls the hotel search backend.
type Client struct {
	baseURL      string
	http         *http.Client
	cb           *gobreaker.CircuitBreaker
	tracer       trace.Tracer
	logger       logrus.FieldLogger
	demoFallback bool
}

var _ contracts.SearchAPI = (*Client)(nil)

// NewClient creates a new Client.
func NewClient(cfg Config, logger logrus.FieldLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		cb:           CircuitBreaker("search-api", logger),
		tracer:       otel.Tracer("staysearch/searchapi"),
		logger:       logger,
		demoFallback: cfg.DemoFallback,
	}
}

// CircuitBreaker opens after more than two consecutive failures and probes again after 10s.
// Rejections (4xx) do not count as failures.
func CircuitBreaker(name string, logger logrus.FieldLogger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker changed state")
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, domain.ErrSearchRejected)
		},
	})
}

type searchRequest struct {
	Destination  string `json:"destination"`
	CheckIn      string `json:"checkin"`
	CheckOut     string `json:"checkout"`
	Adults       int    `json:"adults"`
	ChildrenAges []int  `json:"children_ages"`
	Rooms        int    `json:"rooms"`
	Radius       int    `json:"radius"`
	Currency     string `json:"currency"`
	Residency    string `json:"residency"`
}

// Search fetches the pool for the criteria. With demo fallback enabled, a failed
// or empty search returns sample listings flagged as demo.
func (c *Client) Search(ctx context.Context, criteria domain.SearchCriteria) (*contracts.SearchResult, error) {
	ctx, span := c.tracer.Start(ctx, "SearchAPI.Search", trace.WithAttributes(
		attribute.String("search.destination", criteria.Destination),
		attribute.Int("search.nights", criteria.Nights()),
	))
	defer span.End()

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.search(ctx, criteria)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}

	var listings []domain.Listing
	if err == nil {
		listings = result.([]domain.Listing)
	}

	if c.demoFallback && (err != nil || len(listings) == 0) {
		entry := c.logger.WithField("destination", criteria.Destination)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Info("serving demo listings")
		span.SetAttributes(attribute.Bool("search.demo", true))
		return &contracts.SearchResult{Listings: DemoListings(criteria.Destination, DemoCount), Demo: true}, nil
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.pool_size", len(listings)))
	return &contracts.SearchResult{Listings: listings}, nil
}

func (c *Client) search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Listing, error) {
	body, err := json.Marshal(searchRequest{
		Destination:  criteria.Destination,
		CheckIn:      criteria.CheckIn.Format("2006-01-02"),
		CheckOut:     criteria.CheckOut.Format("2006-01-02"),
		Adults:       criteria.TotalAdults(),
		ChildrenAges: criteria.ChildAges(),
		Rooms:        len(criteria.Rooms),
		Radius:       searchRadius,
		Currency:     criteria.Currency,
		Residency:    criteria.Residency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchUnavailable, resp.StatusCode, readSnippet(resp.Body))
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchRejected, resp.StatusCode, readSnippet(resp.Body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrSearchUnavailable, err)
	}
	if payload.failed() {
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchRejected, payload.Error)
	}

	return normalizeHotels(payload.hotels(), criteria.Currency), nil
}

// Health checks that the backend answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", domain.ErrSearchUnavailable, resp.StatusCode)
	}
	return nil
}

func readSnippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBytes))
	return strings.TrimSpace(string(data))
}
