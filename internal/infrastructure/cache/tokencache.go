package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const (
	// ExternalTokenKeyPrefix namespaces default-API tokens: external_api_token.{user}
	ExternalTokenKeyPrefix = "external_api_token."
	// IntegrationTokenKeyFormat namespaces provider tokens: integration.{user}.{provider}.token
	IntegrationTokenKeyFormat = "integration.%d.%s.token"

	defaultMemoryEntries = 4096
)

// TokenCache holds short-lived copies of encrypted tokens. A miss is never an
// error; callers fall back to durable storage.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	// Put stores value for ttl. A non-positive ttl writes nothing.
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Forget(ctx context.Context, key string) error
}

func ExternalTokenKey(userID uint) string {
	return fmt.Sprintf("%s%d", ExternalTokenKeyPrefix, userID)
}

func IntegrationTokenKey(userID uint, provider string) string {
	return fmt.Sprintf(IntegrationTokenKeyFormat, userID, provider)
}

// RedisTokenCache implements TokenCache on Redis
type RedisTokenCache struct {
	client *redis.Client
}

func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

func (c *RedisTokenCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read token cache: %w", err)
	}
	return val, true, nil
}

func (c *RedisTokenCache) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

func (c *RedisTokenCache) Forget(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete token cache: %w", err)
	}
	return nil
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryTokenCache is a bounded in-process TokenCache for single-instance
// deployments without Redis. Entries carry their own expiry because every
// token has a different ttl; expired entries read as misses until the LRU
// evicts or a Put overwrites them.
type MemoryTokenCache struct {
	items *lru.Cache[string, memoryEntry]
	now   func() time.Time
}

func NewMemoryTokenCache(size int) (*MemoryTokenCache, error) {
	if size <= 0 {
		size = defaultMemoryEntries
	}
	items, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create token cache: %w", err)
	}
	return &MemoryTokenCache{items: items, now: time.Now}, nil
}

func (c *MemoryTokenCache) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := c.items.Get(key)
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryTokenCache) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.items.Add(key, memoryEntry{value: value, expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryTokenCache) Forget(_ context.Context, key string) error {
	c.items.Remove(key)
	return nil
}
