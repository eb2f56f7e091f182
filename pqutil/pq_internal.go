package pqutil

// heapEntries implements the required interface to be used as a heap data structure using 'container/heap'.
type heapEntries[T any] struct {
	entries []Entry[T]
	before  BeforeFunc[T]
}

func (h *heapEntries[T]) Len() int {
	return len(h.entries)
}

func (h *heapEntries[T]) Less(i, j int) bool {
	return h.before(h.entries[i], h.entries[j])
}

func (h *heapEntries[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *heapEntries[T]) Push(x any) {
	h.entries = append(h.entries, x.(Entry[T]))
}

func (h *heapEntries[T]) Pop() any {
	var (
		last = len(h.entries) - 1
		x    = h.entries[last]
	)

	// Release any references held by the payload
	h.entries[last] = Entry[T]{}
	h.entries = h.entries[:last]

	return x
}
