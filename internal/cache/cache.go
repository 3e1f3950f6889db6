package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const searchKeyPrefix = "search:"

// RedisSearchCache stores serialized search results in redis with a TTL.
// All failures are logged and swallowed; the cache never fails a request.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSearchCache creates a search cache backed by the given client.
func NewRedisSearchCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSearchCache {
	return &RedisSearchCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached payload for the key, if present.
func (c *RedisSearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, searchKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return payload, true
}

// Set stores the payload under the key with the configured TTL.
func (c *RedisSearchCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, searchKeyPrefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every cached search result. Items changed, so any cached
// result may be stale.
func (c *RedisSearchCache) Invalidate(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, searchKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("search cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}
