package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/light-bringer/staysearch-service/internal/app/search/contracts"
	"github.com/light-bringer/staysearch-service/internal/app/search/domain"
)

const poolKeyPrefix = "pool:"

func poolKey(sessionID string) string {
	return poolKeyPrefix + sessionID
}

// BadgerCache keeps result pools in an embedded badger store.
type BadgerCache struct {
	db *badger.DB
}

var _ contracts.ResultCache = (*BadgerCache)(nil)

// OpenBadgerCache opens the store at dir. An empty dir keeps everything in memory.
func OpenBadgerCache(dir string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

// Put stores the pool with a TTL.
func (c *BadgerCache) Put(_ context.Context, sessionID string, listings []domain.Listing, ttl time.Duration) error {
	data, err := encodePool(listings)
	if err != nil {
		return fmt.Errorf("failed to encode pool: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(poolKey(sessionID)), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Get returns the cached pool or domain.ErrResultsExpired.
func (c *BadgerCache) Get(_ context.Context, sessionID string) ([]domain.Listing, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(poolKey(sessionID)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrResultsExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached pool: %w", err)
	}
	return decodePool(data)
}

// Delete drops the cached pool. Missing keys are not an error.
func (c *BadgerCache) Delete(_ context.Context, sessionID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(poolKey(sessionID)))
	})
}

// Ping reports whether the store is still open.
func (c *BadgerCache) Ping(_ context.Context) error {
	if c.db.IsClosed() {
		return errors.New("badger is closed")
	}
	return nil
}

// Close releases the store.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
