package cache

import (
	"go.uber.org/zap"

	aliasapp "github.com/wholesale/backend/internal/application/alias"
	"github.com/wholesale/backend/internal/infrastructure/config"
)

// NewAliasMappingCache creates the alias cache for the deployment: Redis
// when reachable, otherwise a process-local in-memory cache. The fallback is
// logged because cross-instance invalidation is lost with it.
func NewAliasMappingCache(cfg config.RedisConfig, logger *zap.Logger) aliasapp.MappingCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	redisCache, err := NewRedisAliasMappingCache(cfg, logger)
	if err == nil {
		logger.Info("Using Redis alias cache", zap.String("addr", cfg.Addr()))
		return redisCache
	}

	logger.Warn("Redis unavailable, falling back to in-memory alias cache. "+
		"Alias assignments made on other instances will not invalidate this cache.",
		zap.Error(err))
	return NewInMemoryAliasMappingCache()
}
