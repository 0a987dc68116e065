package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

// RedisCache keeps result pools in redis so several replicas share them.
type RedisCache struct {
	client *redis.Client
}

var _ contracts.ResultCache = (*RedisCache)(nil)

// NewRedisCache connects to redis at addr.
func NewRedisCache(addr, password string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Put stores the pool with a TTL.
func (c *RedisCache) Put(_ context.Context, sessionID string, listings []domain.Listing, ttl time.Duration) error {
	data, err := encodePool(listings)
	if err != nil {
		return fmt.Errorf("failed to encode pool: %w", err)
	}
	if err := c.client.Set(poolKey(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache pool: %w", err)
	}
	return nil
}

// Get returns the cached pool or domain.ErrResultsExpired.
func (c *RedisCache) Get(_ context.Context, sessionID string) ([]domain.Listing, error) {
	data, err := c.client.Get(poolKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrResultsExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached pool: %w", err)
	}
	return decodePool(data)
}

// Delete drops the cached pool.
func (c *RedisCache) Delete(_ context.Context, sessionID string) error {
	return c.client.Del(poolKey(sessionID)).Err()
}

// Ping checks the connection.
func (c *RedisCache) Ping(_ context.Context) error {
	return c.client.Ping().Err()
}

// Close releases the connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
