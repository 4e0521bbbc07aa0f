package server

import (
	"context"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/config"
	"mindbloom/internal/db"
	"mindbloom/internal/logger"
	"mindbloom/internal/memstore"
	"mindbloom/internal/metrics"
	"mindbloom/internal/mongostore"
	"mindbloom/internal/rediscache"
	"mindbloom/internal/training"
)

// Store is what a storage backend has to offer the engine and the training
// workflow.
type Store interface {
	analytics.SessionStore
	analytics.UserStore
	training.Store
}

// Backend is the storage selected by configuration.
type Backend struct {
	Name  string
	Store Store
	Cache analytics.ProgressCache

	ping    func(ctx context.Context) error
	closers []func(ctx context.Context) error
}

// OpenBackend picks PostgreSQL when DATABASE_URL is set, MongoDB when
// MONGODB_URI is set and memory otherwise. A Redis cache is layered in front
// of the user record when REDIS_ADDR is set and reachable.
func OpenBackend(ctx context.Context, cfg config.Config, log *logger.Logger) (*Backend, error) {
	b := &Backend{}
	switch {
	case cfg.DatabaseURL != "":
		database, err := db.Connect(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		b.Name, b.Store, b.ping = "postgres", database, database.Ping
		b.closers = append(b.closers, func(context.Context) error { return database.Close() })
	case cfg.MongoURI != "":
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn("ensuring mongodb indexes", "error", err)
		}
		b.Name, b.Store, b.ping = "mongodb", store, store.Ping
		b.closers = append(b.closers, store.Close)
	default:
		b.UseMemory()
	}

	b.Cache = analytics.UserRecordCache{Users: b.Store}
	if cfg.RedisAddr != "" {
		ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
		cache, err := rediscache.Connect(ctx, cfg.RedisAddr, ttl, log)
		if err != nil {
			log.Warn("redis unavailable, caching on the user record", "error", err)
		} else {
			cache.Fallback = b.Cache
			b.Cache = cache
			b.closers = append(b.closers, func(context.Context) error { return cache.Close() })
		}
	}
	return b, nil
}

// UseMemory switches the backend to a fresh in-memory store.
func (b *Backend) UseMemory() {
	b.Name, b.Store, b.ping = "memory", memstore.NewStore(), nil
	b.Cache = analytics.UserRecordCache{Users: b.Store}
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i](ctx)
	}
}

// NewEngine builds a progress engine over the backend.
func (b *Backend) NewEngine(cfg config.Config, log *logger.Logger, m *metrics.Metrics) *analytics.Engine {
	engine := analytics.NewEngine(b.Store, b.Store, log)
	engine.Cache = b.Cache
	engine.Metrics = m
	if cfg.CacheTTLMinutes > 0 {
		engine.CacheTTL = time.Duration(cfg.CacheTTLMinutes) * time.Minute
	}
	if cfg.TrendWindowDays > 0 {
		engine.TrendWindowDays = cfg.TrendWindowDays
	}
	return engine
}
