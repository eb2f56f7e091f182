// Package syncutil provides the synchronization primitives which the priority queue is composed from: a lock with
// timed acquisition, a wake channel of sentinel tokens and a one-time initialization barrier.
package syncutil

import "time"

// WaitForever may be passed as a timeout to block without bound.
const WaitForever time.Duration = -1

// newTimer returns a channel which fires once the timeout elapses and a function to release the timer. The channel is
// <nil> (never fires) when the timeout is 'WaitForever'.
func newTimer(timeout time.Duration) (<-chan time.Time, func()) {
	if timeout < 0 {
		return nil, func() {}
	}

	timer := time.NewTimer(timeout)

	return timer.C, func() { timer.Stop() }
}
