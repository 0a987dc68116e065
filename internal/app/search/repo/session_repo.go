package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/models/m_search_session"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
	"github.com/light-bringer/staysearch-service/internal/pkg/committer"
)

// SessionRepo implements SessionRepository for Spanner.
type SessionRepo struct {
	client *spanner.Client
	model  *m_search_session.Model
	clock  clock.Clock
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(client *spanner.Client, clk clock.Clock) *SessionRepo {
	return &SessionRepo{
		client: client,
		model:  m_search_session.NewModel(),
		clock:  clk,
	}
}

var _ contracts.SessionRepository = (*SessionRepo)(nil)

// InsertMut creates a mutation for inserting a new session.
func (r *SessionRepo) InsertMut(session *domain.SearchSession) (*spanner.Mutation, error) {
	data, err := r.domainToData(session)
	if err != nil {
		return nil, err
	}
	return r.model.InsertMut(data), nil
}

// UpdateMut creates a mutation for the dirty fields of a session.
func (r *SessionRepo) UpdateMut(session *domain.SearchSession) (*spanner.Mutation, error) {
	changes := session.Changes()
	if !changes.HasChanges() {
		return nil, nil
	}

	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldCriteria) {
		c := session.Criteria()
		criteriaJSON, err := encodeCriteria(c)
		if err != nil {
			return nil, fmt.Errorf("failed to encode criteria: %w", err)
		}
		updates[m_search_session.Destination] = c.Destination
		updates[m_search_session.CheckIn] = toNullDate(c.CheckIn)
		updates[m_search_session.CheckOut] = toNullDate(c.CheckOut)
		updates[m_search_session.CriteriaJSON] = criteriaJSON
	}

	if changes.Dirty(domain.FieldFilters) {
		filtersJSON, err := encodeFilters(session.Filters(), session.DefaultFilters())
		if err != nil {
			return nil, fmt.Errorf("failed to encode filters: %w", err)
		}
		updates[m_search_session.FiltersJSON] = filtersJSON
	}

	if changes.Dirty(domain.FieldSort) {
		updates[m_search_session.SortMode] = string(session.Sort())
	}

	if changes.Dirty(domain.FieldPage) {
		updates[m_search_session.Page] = int64(session.Page())
	}

	if changes.Dirty(domain.FieldSelectedListing) {
		updates[m_search_session.SelectedListingID] = toNullString(session.SelectedListingID())
	}

	if changes.Dirty(domain.FieldResultCount) {
		updates[m_search_session.ResultCount] = int64(session.ResultCount())
	}

	if changes.Dirty(domain.FieldDemo) {
		updates[m_search_session.Demo] = session.Demo()
	}

	if changes.Dirty(domain.FieldExpiresAt) {
		updates[m_search_session.ExpiresAt] = session.ExpiresAt()
	}

	updates[m_search_session.UpdatedAt] = r.clock.Now()
	updates[m_search_session.Version] = session.Version() + 1

	return r.model.UpdateMut(session.ID(), updates), nil
}

// VersionCheck describes the optimistic lock for a loaded session.
func (r *SessionRepo) VersionCheck(session *domain.SearchSession) committer.VersionCheck {
	return committer.VersionCheck{
		Table:    m_search_session.TableName,
		Key:      spanner.Key{session.ID()},
		Column:   m_search_session.Version,
		Expected: session.Version(),
	}
}

// GetByID loads a session and rebuilds the aggregate.
func (r *SessionRepo) GetByID(ctx context.Context, sessionID string) (*domain.SearchSession, error) {
	row, err := r.client.Single().ReadRow(ctx, m_search_session.TableName, spanner.Key{sessionID}, m_search_session.AllColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read search session: %w", err)
	}

	var data m_search_session.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse search session: %w", err)
	}

	return dataToDomain(&data)
}

func (r *SessionRepo) domainToData(session *domain.SearchSession) (*m_search_session.Data, error) {
	c := session.Criteria()
	criteriaJSON, err := encodeCriteria(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode criteria: %w", err)
	}
	filtersJSON, err := encodeFilters(session.Filters(), session.DefaultFilters())
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters: %w", err)
	}

	return &m_search_session.Data{
		SessionID:         session.ID(),
		Destination:       c.Destination,
		CheckIn:           toNullDate(c.CheckIn),
		CheckOut:          toNullDate(c.CheckOut),
		CriteriaJSON:      criteriaJSON,
		FiltersJSON:       filtersJSON,
		SortMode:          string(session.Sort()),
		Page:              int64(session.Page()),
		SelectedListingID: toNullString(session.SelectedListingID()),
		ResultCount:       int64(session.ResultCount()),
		Demo:              session.Demo(),
		Version:           session.Version(),
		CreatedAt:         session.CreatedAt(),
		UpdatedAt:         session.UpdatedAt(),
		ExpiresAt:         session.ExpiresAt(),
	}, nil
}

func dataToDomain(data *m_search_session.Data) (*domain.SearchSession, error) {
	criteria, err := decodeCriteria(data.CriteriaJSON)
	if err != nil {
		return nil, err
	}
	active, defaults, err := decodeFilters(data.FiltersJSON)
	if err != nil {
		return nil, err
	}
	mode, err := domain.ParseSortMode(data.SortMode)
	if err != nil {
		mode = domain.SortRecommended
	}

	return domain.ReconstructSearchSession(
		data.SessionID,
		criteria,
		active, defaults,
		mode,
		int(data.Page),
		data.SelectedListingID.StringVal,
		int(data.ResultCount),
		data.Demo,
		data.Version,
		data.CreatedAt, data.UpdatedAt, data.ExpiresAt,
	), nil
}

func toNullDate(t time.Time) spanner.NullDate {
	return spanner.NullDate{Date: civil.DateOf(t), Valid: true}
}

func toNullString(s string) spanner.NullString {
	return spanner.NullString{StringVal: s, Valid: s != ""}
}
