//go:build integration

package repo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
	"github.com/light-bringer/staysearch-service/internal/app/search/repo"
	"github.com/light-bringer/staysearch-service/internal/testutil"
)

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	ctx := context.Background()
	cache := repo.NewRedisCache(addr, os.Getenv("REDIS_PASSWORD"), 0)
	defer cache.Close()
	require.NoError(t, cache.Ping(ctx))

	id := uuid.New().String()
	pool := testutil.Pool(4)

	_, err := cache.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrResultsExpired)

	require.NoError(t, cache.Put(ctx, id, pool, time.Minute))
	got, err := cache.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.IDs(pool), testutil.IDs(got))

	require.NoError(t, cache.Delete(ctx, id))
	_, err = cache.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrResultsExpired)
}
