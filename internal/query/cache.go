package query

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheTTL is the fixed window results stay valid for a distinct
// filter+sort combination.
const cacheTTL = 60 * time.Second

// Cache is a best-effort result cache. Implementations swallow their own
// failures; a broken cache degrades to always-miss, never to an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
	// Invalidate drops every cached result. Called on any write — whole-cache
	// invalidation, not selective.
	Invalidate(ctx context.Context)
}

// RedisCache implements Cache on go-redis. Invalidation bumps a version
// counter baked into every key, so stale entries simply expire unused.
type RedisCache struct {
	rdb *redis.Client
}

// NewRedisCache wraps an existing client.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.rdb.Get(ctx, c.versionedKey(ctx, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[cache] get failed: %v", err)
		}
		return nil, false
	}
	return payload, true
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.rdb.Set(ctx, c.versionedKey(ctx, key), payload, cacheTTL).Err(); err != nil {
		log.Printf("[cache] set failed: %v", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, "jobs:cache:version").Err(); err != nil {
		log.Printf("[cache] invalidate failed: %v", err)
	}
}

func (c *RedisCache) versionedKey(ctx context.Context, key string) string {
	version, err := c.rdb.Get(ctx, "jobs:cache:version").Int64()
	if err != nil && err != redis.Nil {
		log.Printf("[cache] version read failed: %v", err)
	}
	return fmt.Sprintf("jobs:query:%d:%s", version, key)
}
