package catalog

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "weddinghall:catalog"

// SnapshotCache keeps raw catalog documents keyed by company name.
type SnapshotCache interface {
	Get(ctx context.Context, company string) ([]byte, bool, error)
	Set(ctx context.Context, company string, payload []byte) error
	Delete(ctx context.Context, company string) error
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a no-op cache when rdb is nil, so a missing Redis
// only costs a database round trip.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) SnapshotCache {
	if rdb == nil {
		return noopCache{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, company string) ([]byte, bool, error) {
	bs, err := c.rdb.Get(ctx, CacheKey(company)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return bs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, company string, payload []byte) error {
	return c.rdb.SetEx(ctx, CacheKey(company), payload, c.ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, company string) error {
	return c.rdb.Del(ctx, CacheKey(company)).Err()
}

// CacheKey hashes the company name so arbitrary unicode stays key-safe.
func CacheKey(company string) string {
	sum := sha1.Sum([]byte(company))
	return fmt.Sprintf("%s:%x", cacheKeyPrefix, sum[:])
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte) error         { return nil }
func (noopCache) Delete(context.Context, string) error              { return nil }
