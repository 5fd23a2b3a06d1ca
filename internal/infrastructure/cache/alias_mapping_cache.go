package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wholesale/backend/internal/infrastructure/config"
)

// aliasKeyPrefix namespaces cached alias lookups in Redis
const aliasKeyPrefix = "alias:mapped:"

// aliasCacheTTL bounds staleness when an assignment happens on another
// instance that cannot invalidate this one's entries.
const aliasCacheTTL = 15 * time.Minute

// RedisAliasMappingCache caches resolved alias lookups in Redis so the
// transform loop does not hit the mapping table once per record per run.
// All operations are best effort; errors are logged and treated as misses.
type RedisAliasMappingCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisAliasMappingCache creates a Redis-backed alias cache and verifies
// the connection.
func NewRedisAliasMappingCache(cfg config.RedisConfig, logger *zap.Logger) (*RedisAliasMappingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisAliasMappingCache{client: client, logger: logger}, nil
}

// Get returns the cached canonical ID for a raw value
func (c *RedisAliasMappingCache) Get(ctx context.Context, rawValue string) (uuid.UUID, bool) {
	value, err := c.client.Get(ctx, aliasKeyPrefix+rawValue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Alias cache read failed", zap.String("raw_value", rawValue), zap.Error(err))
		}
		return uuid.Nil, false
	}

	id, err := uuid.Parse(value)
	if err != nil {
		c.logger.Warn("Alias cache entry corrupt", zap.String("raw_value", rawValue), zap.Error(err))
		return uuid.Nil, false
	}
	return id, true
}

// Set caches the canonical ID for a raw value
func (c *RedisAliasMappingCache) Set(ctx context.Context, rawValue string, canonicalID uuid.UUID) {
	if err := c.client.Set(ctx, aliasKeyPrefix+rawValue, canonicalID.String(), aliasCacheTTL).Err(); err != nil {
		c.logger.Warn("Alias cache write failed", zap.String("raw_value", rawValue), zap.Error(err))
	}
}

// Invalidate drops the cached entry for a raw value
func (c *RedisAliasMappingCache) Invalidate(ctx context.Context, rawValue string) {
	if err := c.client.Del(ctx, aliasKeyPrefix+rawValue).Err(); err != nil {
		c.logger.Warn("Alias cache invalidation failed", zap.String("raw_value", rawValue), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisAliasMappingCache) Close() error {
	return c.client.Close()
}

// InMemoryAliasMappingCache is a process-local alias cache. Suitable for
// single-instance deployments and testing; entries are not shared across
// processes, so a mapping assigned elsewhere stays stale until the TTL-less
// entry is invalidated locally.
type InMemoryAliasMappingCache struct {
	mu      sync.RWMutex
	entries map[string]uuid.UUID
}

// NewInMemoryAliasMappingCache creates an empty in-memory alias cache
func NewInMemoryAliasMappingCache() *InMemoryAliasMappingCache {
	return &InMemoryAliasMappingCache{entries: make(map[string]uuid.UUID)}
}

// Get returns the cached canonical ID for a raw value
func (c *InMemoryAliasMappingCache) Get(_ context.Context, rawValue string) (uuid.UUID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.entries[rawValue]
	return id, ok
}

// Set caches the canonical ID for a raw value
func (c *InMemoryAliasMappingCache) Set(_ context.Context, rawValue string, canonicalID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[rawValue] = canonicalID
}

// Invalidate drops the cached entry for a raw value
func (c *InMemoryAliasMappingCache) Invalidate(_ context.Context, rawValue string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, rawValue)
}
