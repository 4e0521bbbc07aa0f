package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindbloom/internal/analytics"
	"mindbloom/internal/logger"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "progress:"

// Cache keeps progress projections in Redis under a TTL. When Fallback is
// set every write also lands there and Redis misses are served from it, so
// the user record stays the durable copy.
type Cache struct {
	rdb      *goredis.Client
	ttl      time.Duration
	Fallback analytics.ProgressCache
	log      *logger.Logger
}

func Connect(ctx context.Context, addr string, ttl time.Duration, log *logger.Logger) (*Cache, error) {
	if log == nil {
		log = logger.NewNop()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(rdb, ttl, log), nil
}

func New(rdb *goredis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.NewNop()
	}
	return &Cache{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "RedisProgressCache"),
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

func Key(userID string) string {
	return keyPrefix + userID
}

func (c *Cache) Read(ctx context.Context, userID string) (*analytics.CachedProgress, error) {
	raw, err := c.rdb.Get(ctx, Key(userID)).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return c.readFallback(ctx, userID)
	case err != nil:
		if c.Fallback == nil {
			return nil, fmt.Errorf("reading cached progress: %w", err)
		}
		c.log.Warn("redis read failed, using fallback", "user_id", userID, "error", err)
		return c.readFallback(ctx, userID)
	}

	var progress analytics.CachedProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		return nil, fmt.Errorf("decoding cached progress: %w", err)
	}
	return &progress, nil
}

func (c *Cache) readFallback(ctx context.Context, userID string) (*analytics.CachedProgress, error) {
	if c.Fallback == nil {
		return nil, nil
	}
	return c.Fallback.Read(ctx, userID)
}

// Write stores the projection in Redis and then in the fallback. It fails
// only when the projection landed in neither.
func (c *Cache) Write(ctx context.Context, userID string, progress analytics.CachedProgress) error {
	raw, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding cached progress: %w", err)
	}
	redisErr := c.rdb.Set(ctx, Key(userID), raw, c.ttl).Err()
	if redisErr != nil {
		redisErr = fmt.Errorf("writing cached progress: %w", redisErr)
	}
	if c.Fallback == nil {
		return redisErr
	}

	fallbackErr := c.Fallback.Write(ctx, userID, progress)
	switch {
	case redisErr != nil && fallbackErr != nil:
		return errors.Join(redisErr, fallbackErr)
	case redisErr != nil:
		c.log.Warn("redis write failed, projection kept in fallback", "user_id", userID, "error", redisErr)
	case fallbackErr != nil:
		c.log.Warn("fallback write failed, projection kept in redis", "user_id", userID, "error", fallbackErr)
	}
	return nil
}

var _ analytics.ProgressCache = (*Cache)(nil)
