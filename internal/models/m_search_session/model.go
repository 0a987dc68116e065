package m_search_session

import (
	"sort"

	"cloud.google.com/go/spanner"
)

// Model builds type-safe mutations for the search_sessions table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation inserting a full session row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, AllColumns, []interface{}{
		data.SessionID,
		data.Destination,
		data.CheckIn,
		data.CheckOut,
		data.CriteriaJSON,
		data.FiltersJSON,
		data.SortMode,
		data.Page,
		data.SelectedListingID,
		data.ResultCount,
		data.Demo,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
		data.ExpiresAt,
	})
}

// UpdateMut creates a mutation updating only the given columns.
// Columns are written in sorted order so mutations are deterministic.
func (m *Model) UpdateMut(sessionID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	names := make([]string, 0, len(updates))
	for col := range updates {
		names = append(names, col)
	}
	sort.Strings(names)

	columns := append([]string{SessionID}, names...)
	values := make([]interface{}, 0, len(columns))
	values = append(values, sessionID)
	for _, col := range names {
		values = append(values, updates[col])
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a mutation deleting a session row.
func (m *Model) DeleteMut(sessionID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{sessionID})
}
