package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/sapgui/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:lock:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "SAPGUI", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)
	assert.True(t, mr.Exists("test:lock:lock:SAPGUI"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:lock:SAPGUI"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "SAPGUI", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker2.Lock(waitCtx, "SAPGUI", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "second holder should block until its context expires")

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "SAPGUI", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestRedisLocker_UnlockKeepsForeignToken(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "SAPGUI", 5*time.Second)
	require.NoError(t, err)

	// the lock expired and another process took it over
	require.NoError(t, mr.Set("test:lock:SAPGUI", "someone-else"))

	require.NoError(t, unlock(ctx))
	got, err := mr.Get("test:lock:SAPGUI")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}
