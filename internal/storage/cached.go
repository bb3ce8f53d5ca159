package storage

import (
	"context"
	"errors"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

var _ KeyValueStore = (*CachedStore)(nil)

const megabyte = 1024 * 1024

// CachedStore is a read-through, write-through cache in front of a slower
// backend. The backend stays the source of truth.
type CachedStore struct {
	backend       KeyValueStore
	cache         *freecache.Cache
	expireSeconds int
}

// NewCachedStore wraps backend with a cache of sizeMB megabytes.
// expireSeconds 0 keeps entries until they are evicted.
func NewCachedStore(backend KeyValueStore, sizeMB, expireSeconds int) *CachedStore {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &CachedStore{
		backend:       backend,
		cache:         freecache.NewCache(sizeMB * megabyte),
		expireSeconds: expireSeconds,
	}
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if val, err := c.cache.Get([]byte(key)); err == nil {
		log.Tracef("cache hit for key %s", key)
		return val, nil
	}

	val, err := c.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	c.put(key, val)
	return val, nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := c.backend.Set(ctx, key, value); err != nil {
		// the backend may or may not hold the new value now
		c.cache.Del([]byte(key))
		return err
	}
	c.put(key, value)
	return nil
}

func (c *CachedStore) Remove(ctx context.Context, key string) error {
	c.cache.Del([]byte(key))
	return c.backend.Remove(ctx, key)
}

// HitRate reports the cache hit rate since creation.
func (c *CachedStore) HitRate() float64 {
	return c.cache.HitRate()
}

func (c *CachedStore) put(key string, value []byte) {
	err := c.cache.Set([]byte(key), value, c.expireSeconds)
	if err == nil {
		return
	}
	c.cache.Del([]byte(key))
	if errors.Is(err, freecache.ErrLargeEntry) {
		log.Debugf("value for key %s too large to cache (%d bytes)", key, len(value))
		return
	}
	log.Errorf("failed to cache key %s: %s", key, err)
}
