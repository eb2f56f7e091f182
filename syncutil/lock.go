package syncutil

import (
	"context"
	"time"
)

// Lock is a mutual exclusion lock which supports timed acquisition. Unlike 'sync.Mutex' a caller may give up waiting,
// which allows producers to reject work rather than block indefinitely on a busy queue.
//
// NOTE: Calling 'Unlock' from a goroutine which does not hold the lock is a programming error, it's not detected.
type Lock struct {
	sem chan struct{}
}

// NewLock returns a new unlocked lock.
func NewLock() *Lock {
	return &Lock{sem: make(chan struct{}, 1)}
}

// Lock attempts to acquire the lock waiting at most timeout, returns a boolean indicating whether the lock was
// acquired. A zero timeout polls once, 'WaitForever' blocks until the lock is acquired.
func (l *Lock) Lock(timeout time.Duration) bool {
	if l.LockFromISR() {
		return true
	}

	if timeout == 0 {
		return false
	}

	expired, stop := newTimer(timeout)
	defer stop()

	select {
	case l.sem <- struct{}{}:
		return true
	case <-expired:
		return false
	}
}

// LockContext acquires the lock, giving up once the given context is done.
func (l *Lock) LockContext(ctx context.Context) bool {
	select {
	case l.sem <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Unlock releases the lock, returns false if the lock was not held.
func (l *Lock) Unlock() bool {
	select {
	case <-l.sem:
		return true
	default:
		return false
	}
}

// LockFromISR attempts to acquire the lock without waiting; it's safe to call from contexts which must never block.
func (l *Lock) LockFromISR() bool {
	select {
	case l.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// UnlockFromISR releases the lock without waiting.
func (l *Lock) UnlockFromISR() bool {
	return l.Unlock()
}

// Guard acquires the lock waiting at most timeout and returns a function which releases it. The release function may
// be called any number of times, only the first call has an effect, so it's safe to 'defer' even when the lock is
// released early on another path.
func (l *Lock) Guard(timeout time.Duration) (func(), bool) {
	if !l.Lock(timeout) {
		return func() {}, false
	}

	var released bool

	return func() {
		if released {
			return
		}

		released = true

		l.Unlock()
	}, true
}

// Locked reports whether the lock is currently held by anyone; the result is stale as soon as it's returned.
func (l *Lock) Locked() bool {
	return len(l.sem) == 1
}
