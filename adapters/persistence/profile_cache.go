package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/davitran/profile-hub/internal/domain/user"
	"github.com/davitran/profile-hub/pkg/logger"
)

const profileCacheTTL = 10 * time.Minute

// RedisProfileCache is a read-through cache for GET /profile. Cache
// failures are logged and treated as misses; the database stays the
// source of truth.
type RedisProfileCache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func NewRedisProfileCache(rdb *redis.Client, logger logger.Logger) *RedisProfileCache {
	return &RedisProfileCache{rdb: rdb, logger: logger}
}

func profileCacheKey(id uuid.UUID) string {
	return "profile:" + id.String()
}

func (c *RedisProfileCache) Get(ctx context.Context, id uuid.UUID) (*user.User, bool) {
	data, err := c.rdb.Get(ctx, profileCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("profile cache read failed", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil, false
	}

	u := &user.User{}
	if err := json.Unmarshal(data, u); err != nil {
		c.logger.Warn("profile cache entry corrupt", zap.String("user_id", id.String()), zap.Error(err))
		return nil, false
	}
	return u, true
}

func (c *RedisProfileCache) Set(ctx context.Context, u *user.User) {
	data, err := json.Marshal(u)
	if err != nil {
		c.logger.Warn("cannot marshal profile for cache", zap.String("user_id", u.ID.String()), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, profileCacheKey(u.ID), data, profileCacheTTL).Err(); err != nil {
		c.logger.Warn("profile cache write failed", zap.String("user_id", u.ID.String()), zap.Error(err))
	}
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.rdb.Del(ctx, profileCacheKey(id)).Err(); err != nil {
		c.logger.Warn("profile cache invalidation failed", zap.String("user_id", id.String()), zap.Error(err))
	}
}
