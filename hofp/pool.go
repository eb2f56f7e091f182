// Package hofp exposes a generic higher order function pool which runs 'func(context.Context) error' functions on a
// fixed set of goroutines, such as the goroutines which post events to a sink.
package hofp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/cubeplusplus/dispatch/log"
)

// ErrPoolStopped is returned when attempting to queue work after the pool has been stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

// Function is a higher order function to be executed by the worker pool, where possible, the function should honor the
// cancellation of the given context and return as quickly/cleanly as possible.
type Function func(ctx context.Context) error

// Pool executes the queued functions concurrently on 'Options.Size' goroutines.
//
// NOTE: By default a failing function is logged and counted, and the pool keeps going. With 'Options.FailFast' the
// first error tears the pool down, and it's returned by every subsequent call.
type Pool struct {
	opts   Options
	logger log.WrappedLogger

	work    chan Function
	failed  atomic.Uint64
	stopped bool

	workers sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once

	// errLock guards 'err', the first error seen when failing fast.
	errLock sync.RWMutex
	err     error

	// stopLock is held for reading whilst sending to 'work' so that 'Stop' can't close it under a concurrent 'Queue'.
	stopLock sync.RWMutex
}

// NewPool returns a new worker pool, the workers are started immediately.
func NewPool(opts Options) *Pool {
	opts.defaults()

	ctx, cancel := context.WithCancel(opts.Context)

	pool := &Pool{
		opts:   opts,
		logger: log.NewWrappedLogger(opts.Logger),
		work:   make(chan Function, opts.Size*opts.BufferMultiplier),
		ctx:    ctx,
		cancel: cancel,
	}

	pool.workers.Add(opts.Size)

	for w := 0; w < opts.Size; w++ {
		go pool.worker()
	}

	return pool
}

// worker runs functions until the work channel is closed, or the pool's context is cancelled.
func (p *Pool) worker() {
	defer p.workers.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case fn, ok := <-p.work:
			if !ok {
				return
			}

			if !p.run(fn) {
				return
			}
		}
	}
}

// run executes a single function, returns false if the worker should exit.
func (p *Pool) run(fn Function) bool {
	err := fn(p.ctx)
	if err == nil {
		return true
	}

	p.failed.Add(1)

	if !p.opts.FailFast {
		p.logger.Warnf("%s Function failed: %v", p.opts.LogPrefix, err)
		return true
	}

	// Only the first error is returned to callers, later ones would otherwise be lost
	if !p.setErr(err) {
		p.logger.Errorf("%s Function failed during teardown: %v", p.opts.LogPrefix, err)
	}

	return false
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int {
	return p.opts.Size
}

// Failed returns the number of functions which have returned an error.
func (p *Pool) Failed() uint64 {
	return p.failed.Load()
}

// Queue a function for execution, waiting for buffer space. Returns the error which tore the pool down (when failing
// fast), or 'ErrPoolStopped' once the pool has been stopped.
func (p *Pool) Queue(fn Function) error {
	p.stopLock.RLock()
	defer p.stopLock.RUnlock()

	if err := p.usable(); err != nil {
		return err
	}

	select {
	case p.work <- fn:
	case <-p.ctx.Done():
	}

	return p.getErr()
}

// TryQueue queues a function without waiting for buffer space, returning false if the buffer is full. Callers which
// must never block (e.g. whilst holding a lock) should prefer this over 'Queue'.
func (p *Pool) TryQueue(fn Function) (bool, error) {
	p.stopLock.RLock()
	defer p.stopLock.RUnlock()

	if err := p.usable(); err != nil {
		return false, err
	}

	select {
	case p.work <- fn:
		return true, nil
	default:
		return false, nil
	}
}

// usable returns an error if functions may no longer be queued, the stop lock must be held.
func (p *Pool) usable() error {
	if err := p.getErr(); err != nil {
		return err
	}

	if p.stopped {
		return ErrPoolStopped
	}

	return nil
}

// Stop waits for the functions already queued to run, and then stops the workers. Calling 'Stop' again only returns
// the error which tore the pool down, if there was one.
func (p *Pool) Stop() error {
	p.once.Do(func() {
		p.stopLock.Lock()
		p.stopped = true
		close(p.work)
		p.stopLock.Unlock()

		p.workers.Wait()
		p.cancel()
	})

	return p.getErr()
}

func (p *Pool) getErr() error {
	p.errLock.RLock()
	defer p.errLock.RUnlock()

	return p.err
}

// setErr records the error which tears the pool down, returns false if the pool was already tearing down.
func (p *Pool) setErr(err error) bool {
	p.errLock.Lock()
	defer p.errLock.Unlock()

	if p.err != nil {
		return false
	}

	p.err = err
	p.cancel()

	return true
}
