package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postboost-backend/internal/platform/redis"
)

// CacheService is a small JSON-over-Redis cache. It carries the signed-in
// profile between requests and the pricing settings between reads.
type CacheService struct {
	redisClient *redis.Client
}

func NewCacheService(redisClient *redis.Client) *CacheService {
	return &CacheService{redisClient: redisClient}
}

// Get reads a value from the cache into dest.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

// Set stores a value in the cache.
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.redisClient.Set(ctx, key, string(data), ttl).Err()
}

// Delete removes a key from the cache.
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.redisClient.Del(ctx, key).Err()
}
