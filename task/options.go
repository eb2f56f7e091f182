package task

import (
	"golang.org/x/time/rate"

	"github.com/cubeplusplus/dispatch/elutil"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/pqueue"
)

// DefaultQueueDepth is the capacity of a task's mailbox when none is given.
const DefaultQueueDepth = 10

// Options encapsulates the available options which can be used when creating a task.
type Options struct {
	// Name identifies the task in logs and events, and names its mailbox; defaults to 'task'.
	Name string

	// QueueDepth is the capacity of the task's mailbox, defaults to 'DefaultQueueDepth'.
	QueueDepth int

	// Queue allows tuning the mailbox. Its capacity, name, logger, reporter and fatal hook are taken from the task where
	// not set.
	Queue pqueue.Options

	// SendRate limits the rate at which 'Send' admits items, a zero value disables the limit.
	SendRate rate.Limit

	// SendBurst is the number of items 'Send' may admit at once when rate limited, defaults to one.
	SendBurst int

	// ThreadNice, when non-zero, locks the dispatch loop started by 'Init' to its own OS thread and sets the thread's
	// nice value. Only supported on Linux, elsewhere it's ignored.
	ThreadNice int

	// Logger is the passed Logger struct that implements the Log method for logger the user wants to use.
	Logger log.Logger

	// Reporter receives an event when the handler fails or is given an unsupported item.
	Reporter elutil.Reporter

	// OnFatal is invoked for unrecoverable errors, such as initializing the task twice; defaults to 'fatal.Default'.
	OnFatal fatal.Hook
}

// defaults fills any missing attributes to a sane default.
func (o *Options) defaults() {
	if o.Name == "" {
		o.Name = "task"
	}

	if o.QueueDepth <= 0 {
		o.QueueDepth = DefaultQueueDepth
	}

	if o.SendRate != 0 && o.SendBurst <= 0 {
		o.SendBurst = 1
	}

	if o.Queue.Capacity == 0 {
		o.Queue.Capacity = o.QueueDepth
	}

	if o.Queue.Name == "" {
		o.Queue.Name = o.Name
	}

	if o.Queue.Logger == nil {
		o.Queue.Logger = o.Logger
	}

	if o.Queue.Reporter == nil {
		o.Queue.Reporter = o.Reporter
	}

	if o.Queue.OnFatal == nil {
		o.Queue.OnFatal = o.OnFatal
	}
}
