package syncutil

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewInitBarrier(t *testing.T) {
	barrier := NewInitBarrier()
	require.Len(t, barrier, 1)
}

func TestInitBarrierTryClaim(t *testing.T) {
	barrier := NewInitBarrier()
	require.True(t, barrier.TryClaim())

	// Initialization in progress
	require.False(t, barrier.TryClaim())

	barrier.Success()

	// Initialization complete
	require.False(t, barrier.TryClaim())
}

func TestInitBarrierTryClaimConcurrent(t *testing.T) {
	var (
		barrier = NewInitBarrier()
		claimed atomic.Int32
		wg      sync.WaitGroup
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if barrier.TryClaim() {
				claimed.Add(1)
			}
		}()
	}

	wg.Wait()
	require.Equal(t, int32(1), claimed.Load())
}
