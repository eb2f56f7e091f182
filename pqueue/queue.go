// Package pqueue implements a fixed capacity, thread safe, priority ordered queue which a single consumer can block on.
//
// The queue composes two structures: an ordered store holding the items, and a wake channel holding one sentinel
// token per item. Producers push into the store and then signal the wake channel whilst holding the queue lock; the
// consumer sleeps on the wake channel and only then takes the lock to pop the top item. Items are ordered by priority
// (higher first) and then by the order in which they were sent, using a sequence number which is robust to
// wraparound.
//
// The two structures are expected to always agree in size. Where a consumer observes a token without a matching item
// the divergence is repaired, reported, and counted; once too many faults have been seen the queue escalates through
// the fatal hook rather than continuing in an unverifiable state.
package pqueue

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/pqutil"
	"github.com/cubeplusplus/dispatch/syncutil"
)

// Queue is a bounded, multi-producer, single-consumer priority queue of items of type T, using sequence numbers of
// type S for FIFO ordering within a priority.
type Queue[T any, S constraints.Unsigned] struct {
	opts   Options
	logger log.WrappedLogger

	lock  *syncutil.Lock
	wake  *syncutil.WakeChannel
	store *pqutil.OrderedStore[T]

	// seq is the sequence number which will be assigned to the next item, guarded by 'lock'.
	seq S

	// faults is only modified whilst holding 'lock', it's atomic so that it may be read without it.
	faults atomic.Int32

	stats counters
}

// New creates a new queue using the given options.
func New[T any, S constraints.Unsigned](opts Options) (*Queue[T, S], error) {
	opts.defaults()

	if err := validate[S](opts); err != nil {
		return nil, err
	}

	queue := &Queue[T, S]{
		opts:   opts,
		logger: log.NewWrappedLogger(opts.Logger),
		lock:   syncutil.NewLock(),
		wake:   syncutil.NewWakeChannel(opts.Capacity, opts.WakeSendTimeout),
	}

	queue.store = pqutil.NewOrderedStore(opts.Capacity, queue.before)

	return queue, nil
}

// NewDefault creates a queue of the given capacity using the default options and sequence type.
func NewDefault[T any](capacity int) (*Queue[T, Seq], error) {
	return New[T, Seq](Options{Capacity: capacity})
}

// Name returns the name given to the queue.
func (q *Queue[T, S]) Name() string {
	return q.opts.Name
}

// Send enqueues the given item at the given priority, returns false without side effects if the queue lock could not
// be acquired within the lock timeout or the queue is full. Producers never block for longer than the lock timeout.
func (q *Queue[T, S]) Send(item T, priority uint8) bool {
	if !q.lock.Lock(q.opts.LockTimeout) {
		q.stats.rejected.Add(1)
		q.logger.Debugf("(pqueue) %s: Rejecting item, timed out waiting for lock", q.opts.Name)

		return false
	}

	return q.sendLocked(item, priority, q.wake.Send)
}

// SendFromISR enqueues the given item without ever waiting; it fails when the lock is held by anyone else. It's the
// path for producers which must not block, such as interrupt/callback contexts.
func (q *Queue[T, S]) SendFromISR(item T, priority uint8) bool {
	if !q.lock.LockFromISR() {
		q.stats.rejected.Add(1)
		return false
	}

	return q.sendLocked(item, priority, q.wake.SendFromISR)
}

// sendLocked pushes the item and signals the consumer, the lock must be held and is released before returning.
//
// The wake token is sent before the lock is released so that any token a consumer observes has its item visible in
// the store by the time the consumer acquires the lock.
func (q *Queue[T, S]) sendLocked(item T, priority uint8, signal func(syncutil.Token) bool) bool {
	if q.store.IsFull() {
		q.lock.Unlock()
		q.stats.rejected.Add(1)
		q.logger.Debugf("(pqueue) %s: Rejecting item, queue is full", q.opts.Name)

		return false
	}

	entry := pqutil.Entry[T]{Payload: item, Priority: priority, Sequence: uint64(q.seq)}

	// Advance first, the comparator must never see an enqueued sequence equal to the counter
	q.advance()
	q.store.Push(entry)

	var outcome repairOutcome

	// The wake channel mirrors the store's capacity, if it's full when the store wasn't, the two have diverged
	if !signal(syncutil.WakeToken) {
		outcome = q.repair()
	}

	q.lock.Unlock()
	q.stats.sent.Add(1)
	q.finish(outcome)

	return true
}

// advance increments the sequence number, wrapping at the type width or the configured limit.
func (q *Queue[T, S]) advance() {
	q.seq++

	if q.opts.SeqLimit != 0 && uint64(q.seq) >= q.opts.SeqLimit {
		q.seq = 0
	}
}

// Receive dequeues the top ordered item waiting at most timeout for one to become available; a zero timeout polls
// once and 'syncutil.WaitForever' waits without bound. Returns false if no item was dequeued.
func (q *Queue[T, S]) Receive(timeout time.Duration) (T, bool) {
	if _, ok := q.wake.Receive(timeout); !ok {
		q.stats.timeouts.Add(1)
		return *new(T), false
	}

	return q.take()
}

// ReceiveWait blocks until an item is available and dequeues it. It only returns false when a consistency fault was
// detected or the lock couldn't be acquired, callers looping on it should simply try again.
func (q *Queue[T, S]) ReceiveWait() (T, bool) {
	return q.Receive(syncutil.WaitForever)
}

// ReceiveContext behaves like 'ReceiveWait' but gives up once the given context is done.
func (q *Queue[T, S]) ReceiveContext(ctx context.Context) (T, bool) {
	if _, ok := q.wake.ReceiveContext(ctx); !ok {
		q.stats.timeouts.Add(1)
		return *new(T), false
	}

	return q.take()
}

// take pops the top ordered item having already consumed its wake token.
func (q *Queue[T, S]) take() (T, bool) {
	if !q.lock.Lock(q.opts.LockTimeout) {
		// The token was consumed but its item is still enqueued, put the token back to keep the two in step
		if !q.wake.Send(syncutil.WakeToken) {
			q.logger.Errorf("(pqueue) %s: Failed to re-signal after lock timeout, wake channel is full", q.opts.Name)
		}

		q.logger.Debugf("(pqueue) %s: Timed out waiting for lock whilst receiving", q.opts.Name)

		return *new(T), false
	}

	entry, ok := q.store.Pop()
	if !ok {
		outcome := q.repair()
		q.lock.Unlock()
		q.finish(outcome)

		return *new(T), false
	}

	// Nothing is ordered against the old counter any more, so restart from zero
	if q.store.IsEmpty() {
		q.seq = 0
	}

	q.lock.Unlock()
	q.stats.received.Add(1)

	return entry.Payload, true
}

// IsEmpty returns whether the queue holds no items. The result is best effort and may be stale.
func (q *Queue[T, S]) IsEmpty() bool {
	return q.wake.IsEmpty()
}

// IsFull returns whether the queue is at capacity. The result is best effort and may be stale.
func (q *Queue[T, S]) IsFull() bool {
	return q.wake.IsFull()
}

// Count returns the number of items in the queue. The result is best effort and may be stale.
func (q *Queue[T, S]) Count() int {
	return q.wake.Pending()
}

// Capacity returns the maximum number of items the queue will hold.
func (q *Queue[T, S]) Capacity() int {
	return q.store.Cap()
}

// Faults returns the current value of the consistency fault counter.
func (q *Queue[T, S]) Faults() int {
	return int(q.faults.Load())
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue[T, S]) Stats() Stats {
	return q.stats.snapshot()
}
