// Package committer collects Spanner mutations from repositories and applies
// them atomically.
//
// Usecases never write directly. They follow the same flow every time:
//
//	session, err := sessions.GetByID(ctx, id)
//	// ... call domain methods ...
//	plan := committer.NewPlan()
//	mut, err := sessions.UpdateMut(session)
//	plan.Add(mut)
//	for _, event := range session.DomainEvents() {
//	    plan.Add(outbox.InsertMut(outbox.EnrichEvent(event, payload)))
//	}
//	return comm.ApplyWithVersionCheck(ctx, committer.VersionCheck{...}, plan)
//
// Outbox events ride in the same transaction as the aggregate change.
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrVersionConflict is returned when the stored version differs from the expected one.
var ErrVersionConflict = errors.New("optimistic lock conflict")

// CommitPlan is an ordered set of mutations applied in one transaction.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// VersionCheck identifies the row and version an optimistic write depends on.
type VersionCheck struct {
	Table    string
	Key      spanner.Key
	Column   string
	Expected int64
}

// Committer applies CommitPlans against a Spanner client.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ApplyWithVersionCheck executes the CommitPlan only if the row still carries
// the expected version. A mismatch returns ErrVersionConflict.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, check VersionCheck, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, check.Table, check.Key, []string{check.Column})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", check.Table, err)
		}

		var current int64
		if err := row.Column(0, &current); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if current != check.Expected {
			return fmt.Errorf("%w: %s expected version %d, got %d", ErrVersionConflict, check.Table, check.Expected, current)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}
	return nil
}
