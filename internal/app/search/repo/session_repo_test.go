package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/models/m_search_session"
	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

var repoNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

func newSession(t *testing.T) *domain.SearchSession {
	t.Helper()
	c, err := domain.NewSearchCriteria("Goa",
		time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 22, 0, 0, 0, 0, time.UTC),
		[]domain.Room{{Adults: 2}}, "in", "INR")
	require.NoError(t, err)

	s, err := domain.NewSearchSession("s-1", c, repoNow, 30*time.Minute)
	require.NoError(t, err)

	e := domain.NewEngine(domain.DefaultFilterPolicy())
	e.Load(samplePool())
	s.RecordResults(e, true, repoNow)
	return s
}

func TestSessionRepo_DataMapping(t *testing.T) {
	repo := NewSessionRepo(nil, clock.NewMockClock(repoNow))
	s := newSession(t)

	data, err := repo.domainToData(s)
	require.NoError(t, err)

	assert.Equal(t, "s-1", data.SessionID)
	assert.Equal(t, "Goa", data.Destination)
	assert.Equal(t, "2026-12-20", data.CheckIn.Date.String())
	assert.True(t, data.CheckOut.Valid)
	assert.False(t, data.SelectedListingID.Valid)
	assert.Equal(t, int64(2), data.ResultCount)
	assert.True(t, data.Demo)
	assert.Equal(t, "recommended", data.SortMode)

	restored, err := dataToDomain(data)
	require.NoError(t, err)

	assert.Equal(t, s.ID(), restored.ID())
	assert.Equal(t, s.Criteria().Destination, restored.Criteria().Destination)
	assert.Equal(t, s.Criteria().Nights(), restored.Criteria().Nights())
	assert.True(t, s.Filters().MaxPrice.Equals(restored.Filters().MaxPrice))
	assert.Equal(t, s.DefaultFilters().Stars, restored.DefaultFilters().Stars)
	assert.Equal(t, s.Page(), restored.Page())
	assert.Equal(t, s.ExpiresAt(), restored.ExpiresAt())
	assert.False(t, restored.Changes().HasChanges())
	assert.Empty(t, restored.DomainEvents())
}

func TestSessionRepo_UnknownSortFallsBack(t *testing.T) {
	repo := NewSessionRepo(nil, clock.NewMockClock(repoNow))
	data, err := repo.domainToData(newSession(t))
	require.NoError(t, err)

	data.SortMode = "distance"
	restored, err := dataToDomain(data)
	require.NoError(t, err)
	assert.Equal(t, domain.SortRecommended, restored.Sort())
}

func TestSessionRepo_UpdateMut(t *testing.T) {
	repo := NewSessionRepo(nil, clock.NewMockClock(repoNow))

	t.Run("nothing dirty", func(t *testing.T) {
		data, err := repo.domainToData(newSession(t))
		require.NoError(t, err)
		clean, err := dataToDomain(data)
		require.NoError(t, err)

		mut, err := repo.UpdateMut(clean)
		require.NoError(t, err)
		assert.Nil(t, mut)
	})

	t.Run("dirty session", func(t *testing.T) {
		mut, err := repo.UpdateMut(newSession(t))
		require.NoError(t, err)
		assert.NotNil(t, mut)
	})
}

func TestSessionRepo_VersionCheck(t *testing.T) {
	repo := NewSessionRepo(nil, clock.NewMockClock(repoNow))
	s := newSession(t)

	check := repo.VersionCheck(s)
	assert.Equal(t, m_search_session.TableName, check.Table)
	assert.Equal(t, m_search_session.Version, check.Column)
	assert.Equal(t, s.Version(), check.Expected)
}
