package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return client, mr
}

func TestTokenKeys(t *testing.T) {
	assert.Equal(t, "external_api_token.42", ExternalTokenKey(42))
	assert.Equal(t, "integration.7.hr_system.token", IntegrationTokenKey(7, "hr_system"))
	assert.Equal(t, "sync_lock.7.hr_system", SyncLockKey(7, "hr_system"))
}

func TestRedisTokenCache(t *testing.T) {
	client, mr := setupTestRedis(t)
	c := NewRedisTokenCache(client)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "k", "cipher", time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "cipher", val)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	t.Run("non-positive ttl writes nothing", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "zero", "v", 0))
		require.NoError(t, c.Put(ctx, "neg", "v", -time.Second))
		assert.False(t, mr.Exists("zero"))
		assert.False(t, mr.Exists("neg"))
	})

	t.Run("forget", func(t *testing.T) {
		require.NoError(t, c.Put(ctx, "gone", "v", time.Hour))
		require.NoError(t, c.Forget(ctx, "gone"))
		require.NoError(t, c.Forget(ctx, "gone"))
		assert.False(t, mr.Exists("gone"))
	})

	t.Run("unreachable redis surfaces an error", func(t *testing.T) {
		mr.SetError("LOADING")
		defer mr.SetError("")
		_, _, err := c.Get(ctx, "k")
		assert.Error(t, err)
	})
}

func TestMemoryTokenCache(t *testing.T) {
	c, err := NewMemoryTokenCache(2)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "a", "1", time.Minute))
	val, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "1", val)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok, "expiry instant counts as expired")

	require.NoError(t, c.Put(ctx, "b", "2", 0))
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, "x", "1", time.Hour))
	require.NoError(t, c.Put(ctx, "y", "2", time.Hour))
	require.NoError(t, c.Put(ctx, "z", "3", time.Hour))
	_, ok, _ = c.Get(ctx, "x")
	assert.False(t, ok, "least recently used entry is evicted")

	require.NoError(t, c.Forget(ctx, "z"))
	_, ok, _ = c.Get(ctx, "z")
	assert.False(t, ok)
}

func TestMemoryTokenCache_ConcurrentAccess(t *testing.T) {
	c, err := NewMemoryTokenCache(8)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := ExternalTokenKey(uint(i % 4))
			for range 100 {
				_ = c.Put(ctx, key, "v", time.Minute)
				_, _, _ = c.Get(ctx, key)
				_ = c.Forget(ctx, key)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, c.Put(ctx, "k", "v", time.Minute))
	val, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
}
