package pqutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byPriorityThenSequence is a simple comparator without wraparound handling.
func byPriorityThenSequence(a, b Entry[int]) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}

	return a.Sequence < b.Sequence
}

func TestNewOrderedStore(t *testing.T) {
	store := NewOrderedStore(42, byPriorityThenSequence)
	require.Equal(t, 42, store.Cap())
	require.Equal(t, 42, cap(store.inner.entries))
	require.True(t, store.IsEmpty())
	require.False(t, store.IsFull())
}

func TestOrderedStorePushPopWithPriority(t *testing.T) {
	store := NewOrderedStore(5, byPriorityThenSequence)

	for i := 0; i < 5; i++ {
		require.True(t, store.Push(Entry[int]{Payload: i, Priority: uint8(i), Sequence: uint64(i)}))
	}

	require.Equal(t, 5, store.Len())

	var (
		expected = []int{4, 3, 2, 1, 0}
		actual   = make([]int, 0, 5)
	)

	require.NoError(t, store.Drain(func(entry Entry[int]) error { actual = append(actual, entry.Payload); return nil }))
	require.Equal(t, expected, actual)
}

func TestOrderedStoreFIFOWithinPriority(t *testing.T) {
	store := NewOrderedStore(8, byPriorityThenSequence)

	for i := 0; i < 8; i++ {
		require.True(t, store.Push(Entry[int]{Payload: i, Priority: 127, Sequence: uint64(i)}))
	}

	for i := 0; i < 8; i++ {
		entry, ok := store.Pop()
		require.True(t, ok)
		require.Equal(t, i, entry.Payload)
	}
}

func TestOrderedStoreBounded(t *testing.T) {
	store := NewOrderedStore(3, byPriorityThenSequence)

	for i := 0; i < 3; i++ {
		require.True(t, store.Push(Entry[int]{Payload: i}))
	}

	require.True(t, store.IsFull())
	require.False(t, store.Push(Entry[int]{Payload: 3, Priority: 255}))
	require.Equal(t, 3, store.Len())

	top, ok := store.PeekTop()
	require.True(t, ok)
	require.Equal(t, 0, top.Payload)
}

func TestOrderedStoreEmpty(t *testing.T) {
	store := NewOrderedStore(1, byPriorityThenSequence)

	_, ok := store.Pop()
	require.False(t, ok)

	_, ok = store.PeekTop()
	require.False(t, ok)
}

func TestOrderedStorePeekDoesNotRemove(t *testing.T) {
	store := NewOrderedStore(2, byPriorityThenSequence)
	store.Push(Entry[int]{Payload: 1, Priority: 50})
	store.Push(Entry[int]{Payload: 2, Priority: 200})

	top, ok := store.PeekTop()
	require.True(t, ok)
	require.Equal(t, 2, top.Payload)
	require.Equal(t, 2, store.Len())
}

func TestOrderedStoreDrainNoEntries(t *testing.T) {
	store := NewOrderedStore(5, byPriorityThenSequence)

	var run bool

	require.NoError(t, store.Drain(func(entry Entry[int]) error { run = true; return nil }))
	require.False(t, run)
}

func TestOrderedStoreDrainWithError(t *testing.T) {
	store := NewOrderedStore(5, byPriorityThenSequence)

	for i := 0; i < 5; i++ {
		store.Push(Entry[int]{Payload: i})
	}

	var run int

	err := store.Drain(func(entry Entry[int]) error { run++; return assert.AnError })
	require.ErrorIs(t, err, assert.AnError)
	require.Equal(t, 1, run)
	require.Equal(t, 4, store.Len())
}

func TestOrderedStoreComparatorReadsOwnerState(t *testing.T) {
	// The comparator is a closure so the ordering may depend on state held by the owner, rather than by each entry.
	var reversed bool

	store := NewOrderedStore(4, func(a, b Entry[int]) bool {
		if reversed {
			return a.Sequence > b.Sequence
		}

		return a.Sequence < b.Sequence
	})

	reversed = true

	for i := 0; i < 4; i++ {
		store.Push(Entry[int]{Payload: i, Sequence: uint64(i)})
	}

	top, _ := store.PeekTop()
	require.Equal(t, 3, top.Payload)
}
