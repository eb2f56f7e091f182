package pqueue

import "github.com/cubeplusplus/dispatch/pqutil"

// before orders a ahead of b, it must only be called whilst holding the queue lock since it reads the sequence counter.
//
// Higher priorities come first. Within a priority, entries are split relative to the current counter: entries with a
// sequence at or above it were assigned before the counter last wrapped, entries below it after. Older entries come
// first, and within the same side of the wrap the smaller sequence is the older.
func (q *Queue[T, S]) before(a, b pqutil.Entry[T]) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}

	if q.opts.DisableWrapCheck {
		return a.Sequence < b.Sequence
	}

	var (
		current = uint64(q.seq)
		aOld    = a.Sequence >= current
		bOld    = b.Sequence >= current
	)

	if aOld == bOld {
		return a.Sequence < b.Sequence
	}

	return aOld
}
