package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DistributedCache layers the local in-memory cache over Redis. Document
// reads hit the local cache first; set operations always go straight to
// Redis since membership must be shared across instances.
type DistributedCache struct {
	local     *Cache
	redis     *redis.Client
	keyPrefix string
	localTTL  time.Duration
}

func NewDistributedCache(redisClient *redis.Client, keyPrefix string, localOptions Options) *DistributedCache {
	return &DistributedCache{
		local:     NewCache(localOptions),
		redis:     redisClient,
		keyPrefix: keyPrefix,
		localTTL:  time.Minute, // Local cache expires much faster than Redis
	}
}

// Set adds an item to both local and Redis caches
func (dc *DistributedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := dc.redis.Set(ctx, dc.keyPrefix+key, data, ttl).Err(); err != nil {
		return err
	}

	localTTL := ttl
	if ttl == 0 || ttl > dc.localTTL {
		localTTL = dc.localTTL
	}
	dc.local.Set(key, data, localTTL)

	return nil
}

// Get retrieves an item, checking local cache first. Returns false with a
// nil error when the key does not exist.
func (dc *DistributedCache) Get(ctx context.Context, key string, valuePtr any) (bool, error) {
	if val, found := dc.local.Get(key); found {
		return true, json.Unmarshal(val.([]byte), valuePtr)
	}

	data, err := dc.redis.Get(ctx, dc.keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}

	if err := json.Unmarshal(data, valuePtr); err != nil {
		return false, err
	}

	dc.local.Set(key, data, dc.localTTL)

	return true, nil
}

// Delete removes an item from both caches
func (dc *DistributedCache) Delete(ctx context.Context, key string) error {
	dc.local.Delete(key)

	return dc.redis.Del(ctx, dc.keyPrefix+key).Err()
}

// Invalidate drops the local copy only, forcing the next Get to re-read
// Redis. Used after another instance signals a change.
func (dc *DistributedCache) Invalidate(key string) {
	dc.local.Delete(key)
}

func (dc *DistributedCache) SAdd(ctx context.Context, key string, members ...any) error {
	return dc.redis.SAdd(ctx, dc.keyPrefix+key, members...).Err()
}

func (dc *DistributedCache) SRem(ctx context.Context, key string, members ...any) error {
	return dc.redis.SRem(ctx, dc.keyPrefix+key, members...).Err()
}

func (dc *DistributedCache) SMembers(ctx context.Context, key string) ([]string, error) {
	return dc.redis.SMembers(ctx, dc.keyPrefix+key).Result()
}

// Client exposes the underlying Redis client for callers that need
// pipelines across keys this cache manages.
func (dc *DistributedCache) Client() *redis.Client {
	return dc.redis
}

func (dc *DistributedCache) Close() error {
	dc.local.Close()
	return nil
}
