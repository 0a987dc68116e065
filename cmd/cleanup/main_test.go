package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCutoffs(t *testing.T) {
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	c := newCutoffs(now, Config{
		CompletedRetentionDays: 30,
		FailedRetentionDays:    90,
		SessionGrace:           24 * time.Hour,
	})

	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), c.completed)
	assert.Equal(t, time.Date(2026, 7, 3, 9, 0, 0, 0, time.UTC), c.failed)
	assert.Equal(t, time.Date(2026, 9, 30, 9, 0, 0, 0, time.UTC), c.sessions)
}

func TestStatements(t *testing.T) {
	c := newCutoffs(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Config{SessionGrace: time.Hour})

	stmt := outboxStatement("DELETE", c)
	assert.Contains(t, stmt.SQL, "DELETE FROM outbox_events")
	assert.Equal(t, "completed", stmt.Params["completed"])
	assert.Equal(t, "failed", stmt.Params["failed"])

	count := expiredSessions(c).Count().Build()
	assert.Equal(t, "SELECT COUNT(*) FROM search_sessions WHERE expires_at < @p0", count.SQL)
	assert.Equal(t, c.sessions, count.Params["p0"])
}
