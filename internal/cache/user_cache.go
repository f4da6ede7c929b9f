package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"user_service/internal/observability"

	"github.com/go-redis/redis/v8"
)

const UserCacheTTL = 1 * time.Hour

type UserCache struct {
	client *redis.Client
}

func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get returns the cached payload for key, or nil on a cache miss.
func (c *UserCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		observability.GlobalMetrics.CacheMissesTotal.WithLabelValues(keyType(key)).Inc()
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	observability.GlobalMetrics.CacheHitsTotal.WithLabelValues(keyType(key)).Inc()
	return []byte(val), nil
}

// Set stores data under key with the cache TTL.
func (c *UserCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, UserCacheTTL).Err()
}

// Delete drops a key. Used to invalidate the user list after a create.
func (c *UserCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Build cache key for a single user
func UserKey(userID int) string {
	return fmt.Sprintf("user:%d", userID)
}

// Build cache key for the full user listing
func UserListKey() string {
	return "users:all"
}

func keyType(key string) string {
	return strings.SplitN(key, ":", 2)[0]
}
