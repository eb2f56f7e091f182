package pqueue

import (
	"fmt"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/cubeplusplus/dispatch/elutil"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/syncutil"
)

const (
	// DefaultLockTimeout is the maximum time 'Send'/'Receive' will wait for the queue lock.
	DefaultLockTimeout = 250 * time.Millisecond

	// DefaultMaxFaults is the number of consistency faults tolerated before escalating to the fatal hook.
	DefaultMaxFaults = 10
)

// Options encapsulates the available options which can be used when creating a queue.
type Options struct {
	// Name identifies the queue in logs and events, defaults to 'pqueue'.
	Name string

	// Capacity is the fixed maximum number of items the queue will hold. It may not exceed the number of sequence
	// numbers available ('SeqLimit', or the range of the sequence type).
	//
	// NOTE: Staying within that range isn't sufficient for FIFO ordering when priorities are mixed, a low priority item
	// may remain enqueued whilst higher priority traffic wraps the counter twice; see 'SeqLimit'.
	Capacity int

	// LockTimeout bounds how long producers and the consumer wait for the queue lock, defaults to
	// 'DefaultLockTimeout'.
	LockTimeout time.Duration

	// WakeSendTimeout bounds how long signalling the consumer may wait, defaults to
	// 'syncutil.DefaultWakeSendTimeout'.
	WakeSendTimeout time.Duration

	// MaxFaults is the number of consistency faults after which the queue escalates, defaults to 'DefaultMaxFaults'.
	MaxFaults int

	// SeqLimit, when non-zero, makes the sequence counter wrap back to zero once it reaches this value rather than at
	// the width of the sequence type.
	//
	// NOTE: FIFO ordering across a wrap assumes the counter never wraps twice whilst an item from before the first wrap
	// is still enqueued; the limit (or type) should comfortably exceed the capacity.
	SeqLimit uint64

	// DisableWrapCheck orders items of equal priority by their raw sequence number, items enqueued after a wrap are
	// then dequeued before older items of the same priority.
	DisableWrapCheck bool

	// Logger is the passed Logger struct that implements the Log method for logger the user wants to use.
	Logger log.Logger

	// Reporter receives an event for every consistency fault, and when escalating.
	Reporter elutil.Reporter

	// OnFatal is invoked once the fault threshold is exceeded, defaults to 'fatal.Default'.
	OnFatal fatal.Hook
}

// defaults fills any missing attributes to a sane default.
func (o *Options) defaults() {
	if o.Name == "" {
		o.Name = "pqueue"
	}

	if o.LockTimeout == 0 {
		o.LockTimeout = DefaultLockTimeout
	}

	if o.WakeSendTimeout == 0 {
		o.WakeSendTimeout = syncutil.DefaultWakeSendTimeout
	}

	if o.MaxFaults <= 0 {
		o.MaxFaults = DefaultMaxFaults
	}
}

// validate returns an error if the options can't be used with the sequence type S.
func validate[S constraints.Unsigned](o Options) error {
	if o.Capacity <= 0 {
		return ErrInvalidCapacity
	}

	// Highest sequence number the counter reaches before wrapping
	last := uint64(^S(0))

	if o.SeqLimit != 0 {
		if o.SeqLimit < 2 || o.SeqLimit-1 > last {
			return fmt.Errorf("%w: %d does not fit a %T counter", ErrInvalidSeqLimit, o.SeqLimit, S(0))
		}

		last = o.SeqLimit - 1
	}

	if uint64(o.Capacity-1) > last {
		return fmt.Errorf("%w: %d items exceeds the %d sequence numbers available", ErrInvalidCapacity, o.Capacity,
			last+1)
	}

	return nil
}
