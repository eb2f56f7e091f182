package syncutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockUnlock(t *testing.T) {
	lock := NewLock()
	require.False(t, lock.Locked())

	require.True(t, lock.Lock(0))
	require.True(t, lock.Locked())

	require.True(t, lock.Unlock())
	require.False(t, lock.Locked())

	// Unlocking an unlocked lock is reported
	require.False(t, lock.Unlock())
}

func TestLockTimeout(t *testing.T) {
	lock := NewLock()
	require.True(t, lock.Lock(WaitForever))

	start := time.Now()
	require.False(t, lock.Lock(25*time.Millisecond))
	require.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)

	require.False(t, lock.Lock(0))
}

func TestLockWaitsForRelease(t *testing.T) {
	lock := NewLock()
	require.True(t, lock.Lock(0))

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()
		require.True(t, lock.Lock(time.Second))
		require.True(t, lock.Unlock())
	}()

	time.Sleep(10 * time.Millisecond)
	require.True(t, lock.Unlock())

	wg.Wait()
	require.False(t, lock.Locked())
}

func TestLockContext(t *testing.T) {
	lock := NewLock()
	require.True(t, lock.LockContext(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.False(t, lock.LockContext(ctx))
}

func TestLockFromISRNeverWaits(t *testing.T) {
	lock := NewLock()
	require.True(t, lock.LockFromISR())
	require.False(t, lock.LockFromISR())
	require.True(t, lock.UnlockFromISR())
	require.False(t, lock.UnlockFromISR())
}

func TestLockGuard(t *testing.T) {
	lock := NewLock()

	release, ok := lock.Guard(0)
	require.True(t, ok)
	require.True(t, lock.Locked())

	_, ok = lock.Guard(0)
	require.False(t, ok)

	release()
	release()
	require.False(t, lock.Locked())

	// The second release must not have released someone else's hold
	require.True(t, lock.Lock(0))
	release()
	require.True(t, lock.Locked())
}

func TestLockMutualExclusion(t *testing.T) {
	var (
		lock    = NewLock()
		counter int
		wg      sync.WaitGroup
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 1000; j++ {
				require.True(t, lock.Lock(WaitForever))
				counter++
				lock.Unlock()
			}
		}()
	}

	wg.Wait()
	require.Equal(t, 8000, counter)
}
