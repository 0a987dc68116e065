// Package session_flow holds the load and commit steps shared by the search usecases.
//
// A mutating usecase follows the Golden Mutation Pattern:
//
//	session, engine, err := loader.Load(ctx, id)
//	engine.SetSort(mode)
//	session.ChangeSort(engine, now)
//	err = writer.Update(ctx, session)
package session_flow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
	"github.com/light-bringer/staysearch-service/internal/pkg/committer"
)

// Loader rebuilds a session and its engine for one request.
type Loader struct {
	repo   contracts.SessionRepository
	cache  contracts.ResultCache
	clock  clock.Clock
	policy domain.FilterPolicy
}

// NewLoader creates a new Loader.
func NewLoader(repo contracts.SessionRepository, cache contracts.ResultCache, clock clock.Clock, policy domain.FilterPolicy) *Loader {
	return &Loader{
		repo:   repo,
		cache:  cache,
		clock:  clock,
		policy: policy,
	}
}

// Load fetches the session, rejects expired ones and restores the engine from the cached pool.
func (l *Loader) Load(ctx context.Context, sessionID string) (*domain.SearchSession, *domain.Engine, error) {
	session, err := l.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsExpired(l.clock.Now()) {
		return nil, nil, domain.ErrSessionExpired
	}

	pool, err := l.cache.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	return session, session.Engine(pool, l.policy), nil
}

// Policy returns the engine policy used for new engines.
func (l *Loader) Policy() domain.FilterPolicy {
	return l.policy
}

// Writer commits sessions together with their outbox events.
type Writer struct {
	repo       contracts.SessionRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
}

// NewWriter creates a new Writer.
func NewWriter(repo contracts.SessionRepository, outboxRepo contracts.OutboxRepository, committer contracts.Committer) *Writer {
	return &Writer{
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
	}
}

// Insert commits a new session and its events.
func (w *Writer) Insert(ctx context.Context, session *domain.SearchSession) error {
	plan := committer.NewPlan()

	mut, err := w.repo.InsertMut(session)
	if err != nil {
		return err
	}
	plan.Add(mut)

	if err := w.addEvents(plan, session); err != nil {
		return err
	}

	if err := w.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	session.ClearEvents()
	return nil
}

// Update commits the dirty fields of a loaded session and its events.
// A stale version surfaces as domain.ErrConcurrentModification.
func (w *Writer) Update(ctx context.Context, session *domain.SearchSession) error {
	plan := committer.NewPlan()

	mut, err := w.repo.UpdateMut(session)
	if err != nil {
		return err
	}
	plan.Add(mut)

	if err := w.addEvents(plan, session); err != nil {
		return err
	}

	if plan.IsEmpty() {
		return nil
	}

	if err := w.committer.ApplyWithVersionCheck(ctx, w.repo.VersionCheck(session), plan); err != nil {
		if errors.Is(err, committer.ErrVersionConflict) {
			return domain.ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	session.ClearEvents()
	return nil
}

func (w *Writer) addEvents(plan *committer.CommitPlan, session *domain.SearchSession) error {
	for _, event := range session.DomainEvents() {
		payload, err := SerializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		outboxEvent := w.outboxRepo.EnrichEvent(event, payload)
		plan.Add(w.outboxRepo.InsertMut(outboxEvent))
	}
	return nil
}

// SerializeEvent converts a domain event to JSON payload.
func SerializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
