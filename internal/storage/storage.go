package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single backend round trip.
const DefaultTimeout = 10 * time.Second

var (
	ErrKeyNotFound    = errors.New("key not found in storage")
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// KeyValueStore is the persisted, process-wide key space. Every value is a
// self-contained JSON document; the store never interprets it.
type KeyValueStore interface {
	// Get returns the stored value, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
