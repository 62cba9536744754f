package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker(t *testing.T) {
	client, mr := setupTestRedis(t)
	l := NewRedisLocker(client)
	ctx := context.Background()
	key := SyncLockKey(1, "hr_system")

	release, ok, err := l.TryAcquire(ctx, key, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryAcquire(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second holder is refused")

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists(key))

	t.Run("stale release does not drop a newer holder", func(t *testing.T) {
		stale, ok, err := l.TryAcquire(ctx, key, time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		mr.FastForward(2 * time.Second)

		_, ok, err = l.TryAcquire(ctx, key, time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, stale(ctx))
		assert.True(t, mr.Exists(key))
	})
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	release, ok, err := l.TryAcquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, _ = l.TryAcquire(ctx, "k", time.Minute)
	assert.False(t, ok)

	_, ok, _ = l.TryAcquire(ctx, "other", time.Minute)
	assert.True(t, ok, "keys are independent")

	require.NoError(t, release(ctx))
	again, ok, _ := l.TryAcquire(ctx, "k", time.Minute)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = l.TryAcquire(ctx, "k", time.Minute)
	assert.True(t, ok, "expired lock can be taken over")

	require.NoError(t, again(ctx))
	_, ok, _ = l.TryAcquire(ctx, "k", time.Minute)
	assert.False(t, ok, "stale release keeps the new holder")
}
