package pqutil

// Entry encapsulates a payload, its priority and the sequence number it was assigned when it was enqueued.
type Entry[T any] struct {
	Payload  T
	Priority uint8
	Sequence uint64
}

// BeforeFunc reports whether entry a should be dequeued before entry b.
type BeforeFunc[T any] func(a, b Entry[T]) bool
