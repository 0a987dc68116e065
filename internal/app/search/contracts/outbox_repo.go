package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// OutboxEvent is a domain event ready for persistence.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// OutboxRepository defines the interface for outbox event persistence.
type OutboxRepository interface {
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent wraps a domain event with an id and pending status.
	EnrichEvent(event domain.DomainEvent, payload string) *OutboxEvent
}
