package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model builds mutations for the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for a new event. created_at is the commit timestamp.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, AllColumns, []interface{}{
		data.EventID,
		data.EventType,
		data.AggregateID,
		data.Payload,
		data.Status,
		spanner.CommitTimestamp,
		data.ProcessedAt,
		data.RetryCount,
		data.ErrorMessage,
	})
}
