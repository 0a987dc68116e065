package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/staysearch-service/internal/app/search/queries/list_events"
	"github.com/light-bringer/staysearch-service/internal/models/m_outbox"
	"github.com/light-bringer/staysearch-service/internal/pkg/query"
)

// EventsReadModel implements the EventsReadModel interface for Spanner.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{
		client: client,
	}
}

// eventsQuery builds the filtered outbox query shared by the page and count statements.
func eventsQuery(req *list_events.Request) *query.Builder {
	return query.From(m_outbox.TableName).
		Select(m_outbox.AllColumns...).
		WhereIf(req.EventType != nil, func() query.Condition { return query.Eq(m_outbox.EventType, *req.EventType) }).
		WhereIf(req.AggregateID != nil, func() query.Condition { return query.Eq(m_outbox.AggregateID, *req.AggregateID) }).
		WhereIf(req.Status != nil, func() query.Condition { return query.Eq(m_outbox.Status, *req.Status) })
}

// ListEvents retrieves events from the outbox_events table with filtering.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	base := eventsQuery(req)
	stmt := base.OrderBy(m_outbox.CreatedAt, query.Desc).Limit(int64(req.Limit)).Build()

	// one read-only transaction so the page and the count see the same snapshot
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	var events []*m_outbox.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
		}

		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	total, err := r.count(ctx, txn, base.Count().Build())
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *EventsReadModel) count(ctx context.Context, txn *spanner.ReadOnlyTransaction, stmt spanner.Statement) (int64, error) {
	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	var total int64
	if err := row.Columns(&total); err != nil {
		return 0, fmt.Errorf("failed to scan event count: %w", err)
	}
	return total, nil
}
