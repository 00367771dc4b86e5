package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, time.Minute), mr
}

func TestRedisLocker_ExclusiveAndReleased(t *testing.T) {
	locker, mr := newTestRedisLocker(t)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "ayse")
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockPrefix+"ayse"))

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "ayse")
	assert.True(t, errors.Is(err, ErrLockTimeout))

	other, err := locker.Lock(ctx, "mehmet")
	require.NoError(t, err)
	other()

	unlock()
	assert.False(t, mr.Exists(lockPrefix+"ayse"))

	again, err := locker.Lock(ctx, "ayse")
	require.NoError(t, err)
	again()
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	locker, mr := newTestRedisLocker(t)

	unlock, err := locker.Lock(context.Background(), "ayse")
	require.NoError(t, err)

	// Lock expired and was taken by someone else.
	require.NoError(t, mr.Set(lockPrefix+"ayse", "someone-else"))
	unlock()

	got, err := mr.Get(lockPrefix + "ayse")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestLocalLocker_SerialisesSameKey(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "ayse")
			if err != nil {
				t.Error(err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Empty(t, locker.locks)
}

func TestLocalLocker_CancelledWait(t *testing.T) {
	locker := NewLocalLocker()

	unlock, err := locker.Lock(context.Background(), "ayse")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "ayse")
	assert.ErrorIs(t, err, ErrLockTimeout)
}
