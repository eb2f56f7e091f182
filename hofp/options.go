package hofp

import (
	"context"
	"runtime"

	"github.com/cubeplusplus/dispatch/log"
)

// Options encapsulates the available options which can be used when creating a worker pool.
type Options struct {
	// Context used by the worker pool, if omitted a background context will be used.
	Context context.Context

	// Size dictates the number of goroutines created to process incoming functions. Defaults to three quarters of
	// GOMAXPROCS (at least one).
	Size int

	// BufferMultiplier is the multiplier used when determining how may functions can be buffered for processioning
	// before calls to 'Queue' block. This value is multiplied by the number of goroutines, and defaults to one.
	BufferMultiplier int

	// FailFast tears the pool down on the first function error, by default errors are logged and the pool continues.
	FailFast bool

	// LogPrefix is the prefix used when logging function errors. Defaults to
	// '(hofp)'.
	LogPrefix string

	// Logger is the passed Logger struct that implements the Log method for logger the user wants to use.
	Logger log.Logger
}

// defaults fills any missing attributes to a sane default.
func (o *Options) defaults() {
	if o.Context == nil {
		o.Context = context.Background()
	}

	if o.Size == 0 {
		o.Size = defaultSize()
	}

	o.BufferMultiplier = max(1, o.BufferMultiplier)

	if o.LogPrefix == "" {
		o.LogPrefix = "(hofp)"
	}
}

// defaultSize avoids saturating the CPU with background work, leaving room for the tasks which are the reason the
// process exists.
func defaultSize() int {
	return max(1, runtime.GOMAXPROCS(0)*3/4)
}
