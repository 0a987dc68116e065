package list_events

import (
	"context"

	"github.com/light-bringer/staysearch-service/internal/models/m_outbox"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Request contains filtering parameters for listing events.
type Request struct {
	EventType   *string // e.g. "search.filters_applied"
	AggregateID *string // search session id
	Status      *string // "pending", "processing", "completed", "failed"
	Limit       int
}

// Response is one page of events, newest first.
type Response struct {
	Events     []*m_outbox.Data
	TotalCount int64
}

// EventsReadModel defines the interface for reading events.
type EventsReadModel interface {
	ListEvents(ctx context.Context, req *Request) ([]*m_outbox.Data, int64, error)
}

// Query handles the list events query use case.
type Query struct {
	readModel EventsReadModel
}

// NewQuery creates a new list events query.
func NewQuery(readModel EventsReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute lists events, clamping the limit to [1, MaxLimit].
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	normalized := *req
	if normalized.Limit <= 0 {
		normalized.Limit = DefaultLimit
	}
	if normalized.Limit > MaxLimit {
		normalized.Limit = MaxLimit
	}

	events, total, err := q.readModel.ListEvents(ctx, &normalized)
	if err != nil {
		return nil, err
	}
	return &Response{Events: events, TotalCount: total}, nil
}
