package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAllocator(t *testing.T) {
	allocator := NewAllocator(2, 8)
	require.Equal(t, 2, allocator.Available())
	require.Equal(t, 0, allocator.Outstanding())
	require.Equal(t, 8, allocator.Size())
}

func TestDefaultAllocator(t *testing.T) {
	require.Equal(t, MaxAllocationSize, DefaultAllocator().Size())
	require.LessOrEqual(t, DefaultAllocator().Available(), MaxAllocations)
}

func TestAllocatorGetPut(t *testing.T) {
	allocator := NewAllocator(1, 8)

	buf, err := allocator.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, buf, 8)
	require.Equal(t, 1, allocator.Outstanding())

	_, ok := allocator.TryGet()
	require.False(t, ok)

	require.NoError(t, allocator.Put(buf))
	require.Equal(t, 0, allocator.Outstanding())
	require.Equal(t, 1, allocator.Available())
}

func TestAllocatorGetContextDone(t *testing.T) {
	allocator := NewAllocator(1, 8)

	_, ok := allocator.TryGet()
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := allocator.Get(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAllocatorPutForeign(t *testing.T) {
	allocator := NewAllocator(1, 8)

	require.ErrorIs(t, allocator.Put(make([]byte, 4)), ErrForeignBuffer)

	// Already full
	require.ErrorIs(t, allocator.Put(make([]byte, 8)), ErrForeignBuffer)
}
