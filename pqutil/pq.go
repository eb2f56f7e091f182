// Package pqutil exposes a bounded priority heap whose ordering is supplied by its owner.
package pqutil

import "container/heap"

// OrderedStore is a bounded heap of entries, where the entry at the top is the one which the 'BeforeFunc' orders before
// all others.
//
// NOTE: The store is not thread safe, all access must be performed whilst the owner holds its lock. The comparator may
// read owner state (e.g. a sequence counter) which is why it's supplied as a function rather than being a method of
// the entries.
type OrderedStore[T any] struct {
	inner    heapEntries[T]
	capacity int
}

// NewOrderedStore creates a new store which will hold at most capacity entries ordered using the given function.
func NewOrderedStore[T any](capacity int, before BeforeFunc[T]) *OrderedStore[T] {
	return &OrderedStore[T]{
		inner:    heapEntries[T]{entries: make([]Entry[T], 0, capacity), before: before},
		capacity: capacity,
	}
}

// Push adds the given entry to the store, returns false (leaving the store unchanged) if the store is full.
func (o *OrderedStore[T]) Push(entry Entry[T]) bool {
	if o.IsFull() {
		return false
	}

	heap.Push(&o.inner, entry)

	return true
}

// Pop removes and returns the top ordered entry, returns false if the store is empty.
func (o *OrderedStore[T]) Pop() (Entry[T], bool) {
	if o.IsEmpty() {
		return Entry[T]{}, false
	}

	return heap.Pop(&o.inner).(Entry[T]), true
}

// PeekTop returns the top ordered entry without removing it.
func (o *OrderedStore[T]) PeekTop() (Entry[T], bool) {
	if o.IsEmpty() {
		return Entry[T]{}, false
	}

	return o.inner.entries[0], true
}

// Len returns the number of entries in the store.
func (o *OrderedStore[T]) Len() int {
	return o.inner.Len()
}

// Cap returns the maximum number of entries the store will hold.
func (o *OrderedStore[T]) Cap() int {
	return o.capacity
}

// IsFull returns whether the store has reached its capacity.
func (o *OrderedStore[T]) IsFull() bool {
	return o.Len() >= o.capacity
}

// IsEmpty returns whether there are no entries in the store.
func (o *OrderedStore[T]) IsEmpty() bool {
	return o.Len() == 0
}

// Drain removes all entries from the store in order running the given function on each entry. In the event of an
// error, draining stops early, and returns the error.
func (o *OrderedStore[T]) Drain(fn func(entry Entry[T]) error) error {
	for !o.IsEmpty() {
		entry, _ := o.Pop()

		if err := fn(entry); err != nil {
			return err
		}
	}

	return nil
}
