package domain

import "sort"

// SessionField names a persisted field of a SearchSession.
type SessionField string

const (
	FieldCriteria        SessionField = "criteria"
	FieldFilters         SessionField = "filters"
	FieldSort            SessionField = "sort"
	FieldPage            SessionField = "page"
	FieldSelectedListing SessionField = "selected_listing"
	FieldResultCount     SessionField = "result_count"
	FieldDemo            SessionField = "demo"
	FieldExpiresAt       SessionField = "expires_at"
)

// ChangeTracker records which session fields changed since load,
// so the repository can write only those columns.
type ChangeTracker struct {
	dirty map[SessionField]struct{}
}

// NewChangeTracker creates an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[SessionField]struct{})}
}

// MarkDirty marks fields as modified.
func (ct *ChangeTracker) MarkDirty(fields ...SessionField) {
	for _, f := range fields {
		ct.dirty[f] = struct{}{}
	}
}

// Dirty checks if a field has been modified.
func (ct *ChangeTracker) Dirty(field SessionField) bool {
	_, ok := ct.dirty[field]
	return ok
}

// Clear forgets all modifications.
func (ct *ChangeTracker) Clear() {
	ct.dirty = make(map[SessionField]struct{})
}

// HasChanges returns true if any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields returns the modified fields in a stable order.
func (ct *ChangeTracker) DirtyFields() []SessionField {
	fields := make([]SessionField, 0, len(ct.dirty))
	for f := range ct.dirty {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}
