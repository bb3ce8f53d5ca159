package storage

import (
	"context"
	"fmt"

	"alcyxob/fitness-calendar/internal/config"

	log "github.com/sirupsen/logrus"
)

// NewStore builds the backend named by cfg.Storage.Backend, optionally
// fronted by the in-process cache. The returned closer releases the backend
// connection and is never nil.
func NewStore(ctx context.Context, cfg config.Config) (KeyValueStore, func() error, error) {
	store, closer, err := newBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Cache.Enabled {
		log.Infof("storage cache enabled: %d MB, ttl %ds", cfg.Cache.SizeMB, cfg.Cache.TTL)
		store = NewCachedStore(store, cfg.Cache.SizeMB, cfg.Cache.TTL)
	}
	return store, closer, nil
}

func newBackend(ctx context.Context, cfg config.Config) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage, nothing will be persisted")
		return NewMemoryStore(), noop, nil

	case config.BackendSQLite, "":
		store, err := OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("using sqlite storage at %s", cfg.Storage.SQLitePath)
		return store, store.Close, nil

	case config.BackendRedis:
		rdb, err := ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("using redis storage at %s", cfg.Redis.Addr)
		return NewRedisStore(rdb, cfg.Redis.KeyPrefix), rdb.Close, nil

	case config.BackendMongo:
		client, err := ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
		}
		store := NewMongoStore(client.Database(cfg.Database.Name), cfg.Database.Collection)
		EnsureKVIndexes(ctx, store.Collection())
		log.Infof("using mongodb storage, database %s", cfg.Database.Name)
		return store, func() error { return DisconnectDB(client) }, nil

	case config.BackendS3:
		store, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, nil, err
		}
		return store, noop, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
}
