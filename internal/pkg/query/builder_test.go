package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Select(t *testing.T) {
	tests := []struct {
		name     string
		builder  *Builder
		expected string
	}{
		{"all columns", From("search_sessions"), "SELECT * FROM search_sessions"},
		{"named columns", From("search_sessions").Select("session_id", "destination"), "SELECT session_id, destination FROM search_sessions"},
		{"select calls accumulate", From("outbox_events").Select("event_id").Select("status"), "SELECT event_id, status FROM outbox_events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := tt.builder.Build()
			assert.Equal(t, tt.expected, stmt.SQL)
			assert.Empty(t, stmt.Params)
		})
	}
}

func TestBuilder_Where(t *testing.T) {
	cutoff := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	stmt := From("outbox_events").
		Select("event_id").
		Where(Eq("aggregate_id", "s-1")).
		Where(Lt("created_at", cutoff)).
		Where(IsNull("processed_at")).
		Where(In("status", []string{"pending", "failed"})).
		Build()

	assert.Equal(t, "SELECT event_id FROM outbox_events WHERE aggregate_id = @p0 AND created_at < @p1 AND processed_at IS NULL AND status IN UNNEST(@p2)", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": "s-1",
		"p1": cutoff,
		"p2": []string{"pending", "failed"},
	}, stmt.Params)
}

func TestBuilder_WhereIf(t *testing.T) {
	var eventType *string
	status := "pending"

	stmt := From("outbox_events").
		WhereIf(eventType != nil, func() Condition { return Eq("event_type", *eventType) }).
		WhereIf(true, func() Condition { return Eq("status", status) }).
		Build()

	assert.Equal(t, "SELECT * FROM outbox_events WHERE status = @p0", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "pending"}, stmt.Params)
}

func TestBuilder_OrderAndPagination(t *testing.T) {
	stmt := From("outbox_events").
		Select("event_id", "created_at").
		Where(Eq("status", "pending")).
		OrderBy("created_at", Desc).
		OrderBy("event_id", Asc).
		Limit(50).
		Offset(100).
		Build()

	assert.Equal(t, "SELECT event_id, created_at FROM outbox_events WHERE status = @p0 ORDER BY created_at DESC, event_id ASC LIMIT @limit OFFSET @offset", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0":     "pending",
		"limit":  int64(50),
		"offset": int64(100),
	}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	builder := From("search_sessions").
		Select("session_id").
		Where(Lte("expires_at", "2026-10-01T00:00:00Z")).
		OrderBy("expires_at", Asc).
		Limit(10)

	countStmt := builder.Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM search_sessions WHERE expires_at <= @p0", countStmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": "2026-10-01T00:00:00Z"}, countStmt.Params)

	// the original builder keeps its pagination
	assert.Contains(t, builder.Build().SQL, "ORDER BY expires_at ASC LIMIT @limit")
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("outbox_events").Select("event_id")

	stmt1 := base.Where(Eq("status", "pending")).Build()
	stmt2 := base.Where(Gte("retry_count", int64(3))).Build()

	assert.Equal(t, "SELECT event_id FROM outbox_events WHERE status = @p0", stmt1.SQL)
	assert.Equal(t, "SELECT event_id FROM outbox_events WHERE retry_count >= @p0", stmt2.SQL)
	assert.Equal(t, "SELECT event_id FROM outbox_events", base.Build().SQL)
}

func TestConditions(t *testing.T) {
	tests := []struct {
		name     string
		cond     Condition
		expected string
		params   int
	}{
		{"eq", Eq("status", "pending"), "status = @p4", 1},
		{"lt", Lt("page", 3), "page < @p4", 1},
		{"lte", Lte("page", 3), "page <= @p4", 1},
		{"gt", Gt("page", 3), "page > @p4", 1},
		{"gte", Gte("page", 3), "page >= @p4", 1},
		{"in", In("sort_mode", []string{"rating"}), "sort_mode IN UNNEST(@p4)", 1},
		{"is null", IsNull("selected_listing_id"), "selected_listing_id IS NULL", 0},
		{"is not null", IsNotNull("selected_listing_id"), "selected_listing_id IS NOT NULL", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params := tt.cond.SQL(4)
			assert.Equal(t, tt.expected, sql)
			assert.Len(t, params, tt.params)
		})
	}
}

func TestBuilder_String(t *testing.T) {
	str := From("search_sessions").Where(Eq("session_id", "s-1")).String()

	require.NotEmpty(t, str)
	assert.Contains(t, str, "SQL:")
	assert.Contains(t, str, "Params:")
	assert.Contains(t, str, "search_sessions")
}
