package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitDDLStatements(t *testing.T) {
	content := `-- comment
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

CREATE INDEX idx_a ON a(id);
`
	stmts := splitDDLStatements(content)

	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (\nid STRING(36) NOT NULL,\n) PRIMARY KEY (id)", stmts[0])
	assert.Equal(t, "CREATE INDEX idx_a ON a(id)", stmts[1])
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		stmt     string
		expected string
	}{
		{"CREATE TABLE search_sessions (\nsession_id STRING(36)\n) PRIMARY KEY (session_id)", "table:search_sessions"},
		{"create index idx_x ON t(a)", "index:idx_x"},
		{"CREATE UNIQUE NULL_FILTERED INDEX Idx_Y ON t(a)", "index:idx_y"},
		{"CREATE TABLE `Quoted` (id INT64) PRIMARY KEY (id)", "table:quoted"},
		{"ALTER TABLE t ADD COLUMN c INT64", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, objectName(tt.stmt))
		})
	}
}

func TestPendingStatements(t *testing.T) {
	existing := existingObjects([]string{
		"CREATE TABLE search_sessions (\n  session_id STRING(36) NOT NULL,\n) PRIMARY KEY(session_id)",
	})

	pending := pendingStatements([]string{
		"CREATE TABLE search_sessions (id INT64) PRIMARY KEY (id)",
		"CREATE INDEX idx_search_sessions_expires_at ON search_sessions(expires_at)",
		"ALTER TABLE search_sessions ADD COLUMN note STRING(MAX)",
	}, existing)

	assert.Equal(t, []string{
		"CREATE INDEX idx_search_sessions_expires_at ON search_sessions(expires_at)",
		"ALTER TABLE search_sessions ADD COLUMN note STRING(MAX)",
	}, pending)
}
