// Package task implements a long running consumer which owns a priority queue as its mailbox, and dispatches each item
// it receives to a handler.
package task

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/cubeplusplus/dispatch/elutil"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/pqueue"
	"github.com/cubeplusplus/dispatch/syncutil"
)

// Task is a single consumer dispatch loop. Any number of producers may send items to it; items are handled one at a
// time in priority order and are always reset once handled.
type Task[T Resetter] struct {
	opts    Options
	logger  log.WrappedLogger
	handler Handler[T]
	queue   *pqueue.Queue[T, pqueue.Seq]
	limiter *rate.Limiter

	init syncutil.InitBarrier
	done chan struct{}
	err  error
}

// New creates a new task which dispatches items to the given handler, the task doesn't start until 'Init' or 'Run' is
// called.
func New[T Resetter](opts Options, handler Handler[T]) (*Task[T], error) {
	opts.defaults()

	queue, err := pqueue.New[T, pqueue.Seq](opts.Queue)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox for task '%s': %w", opts.Name, err)
	}

	task := &Task[T]{
		opts:    opts,
		logger:  log.NewWrappedLogger(opts.Logger),
		handler: handler,
		queue:   queue,
		init:    syncutil.NewInitBarrier(),
		done:    make(chan struct{}),
	}

	if opts.SendRate != 0 {
		task.limiter = rate.NewLimiter(opts.SendRate, opts.SendBurst)
	}

	return task, nil
}

// Name returns the name given to the task.
func (t *Task[T]) Name() string {
	return t.opts.Name
}

// Queue returns the task's mailbox.
func (t *Task[T]) Queue() *pqueue.Queue[T, pqueue.Seq] {
	return t.queue
}

// Done returns a channel which is closed once the dispatch loop has exited.
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Err returns the error the dispatch loop exited with, it's only valid once 'Done' is closed.
func (t *Task[T]) Err() error {
	return t.err
}

// Init starts the dispatch loop in a new goroutine which runs until the given context is cancelled. A task may only be
// started once, further attempts are escalated through the fatal hook.
func (t *Task[T]) Init(ctx context.Context) {
	if !t.claim() {
		return
	}

	go func() {
		if t.opts.ThreadNice != 0 {
			if err := setThreadNice(t.opts.ThreadNice); err != nil {
				t.logger.Warnf("(task) %s: %v", t.opts.Name, err)
			}
		}

		_ = t.run(ctx)
	}()
}

// Run runs the dispatch loop in the calling goroutine until the given context is cancelled, returning the context's
// error. It's an alternative to 'Init' for callers managing their own goroutines, and shares its once-only guard.
func (t *Task[T]) Run(ctx context.Context) error {
	if !t.claim() {
		return &ProgrammingError{Task: t.opts.Name, Err: ErrAlreadyInitialized}
	}

	return t.run(ctx)
}

func (t *Task[T]) claim() bool {
	if t.init.TryClaim() {
		t.init.Success()
		return true
	}

	fatal.Escalate(t.opts.OnFatal, &ProgrammingError{Task: t.opts.Name, Err: ErrAlreadyInitialized})

	return false
}

func (t *Task[T]) run(ctx context.Context) error {
	defer close(t.done)

	t.logger.Infof("(task) %s: Starting dispatch loop", t.opts.Name)

	for {
		item, ok := t.queue.ReceiveContext(ctx)
		if ok {
			t.dispatch(ctx, item)
			continue
		}

		if ctx.Err() != nil {
			break
		}
	}

	t.drain()

	t.err = ctx.Err()

	t.logger.Infof("(task) %s: Stopped dispatch loop: %v", t.opts.Name, t.err)

	return t.err
}

func (t *Task[T]) stopped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// drain resets any items left in the mailbox once the loop has stopped.
func (t *Task[T]) drain() {
	var drained int

	for {
		item, ok := t.queue.Receive(0)
		if !ok {
			break
		}

		item.Reset()
		drained++
	}

	if drained > 0 {
		t.logger.Warnf("(task) %s: Discarded %d undelivered items", t.opts.Name, drained)
	}
}

// dispatch hands the item to the handler, the item is reset on every path.
func (t *Task[T]) dispatch(ctx context.Context, item T) {
	defer item.Reset()

	err := t.handle(ctx, item)
	if err == nil {
		return
	}

	if errors.Is(err, ErrUnsupported) {
		t.logger.Warnf("(task) %s: Received unsupported item: %v", t.opts.Name, err)
		t.report(elutil.EventUnsupportedCommand, elutil.SeverityWarn, "task received an unsupported command", err)

		return
	}

	t.logger.Errorf("(task) %s: Failed to handle item: %v", t.opts.Name, err)
	t.report(elutil.EventHandlerFailed, elutil.SeverityError, "task handler failed", err)
}

func (t *Task[T]) handle(ctx context.Context, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{Value: r}
		}
	}()

	return t.handler.Handle(ctx, item)
}

func (t *Task[T]) report(id elutil.EventID, severity elutil.Severity, description string, err error) {
	if t.opts.Reporter == nil {
		return
	}

	t.opts.Reporter.Report(elutil.Event{
		Component:       elutil.ComponentTask,
		Severity:        severity,
		EventID:         id,
		Description:     description,
		SubComponent:    t.opts.Name,
		ExtraAttributes: map[string]any{"error": err.Error()},
	})
}

// Send enqueues the item for the task at the given priority. Ownership of the item passes to the task only when true
// is returned; when the item is rejected (rate limited, loop stopped, mailbox busy or full) it's reset before returning.
func (t *Task[T]) Send(item T, priority uint8) bool {
	if t.limiter != nil && !t.limiter.Allow() {
		t.logger.Debugf("(task) %s: Rejecting item, send rate exceeded", t.opts.Name)
		item.Reset()

		return false
	}

	return t.send(item, priority, t.queue.Send)
}

// SendContext behaves like 'Send' but waits for the rate limiter, rather than rejecting, until the context is done.
func (t *Task[T]) SendContext(ctx context.Context, item T, priority uint8) bool {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			t.logger.Debugf("(task) %s: Rejecting item, failed to wait for send rate: %v", t.opts.Name, err)
			item.Reset()

			return false
		}
	}

	return t.send(item, priority, t.queue.Send)
}

// SendFromISR enqueues the item without ever waiting, bypassing the rate limiter. The item is reset if rejected.
func (t *Task[T]) SendFromISR(item T, priority uint8) bool {
	return t.send(item, priority, t.queue.SendFromISR)
}

func (t *Task[T]) send(item T, priority uint8, fn func(T, uint8) bool) bool {
	if t.stopped() {
		t.logger.Debugf("(task) %s: Rejecting item, dispatch loop stopped", t.opts.Name)
		item.Reset()

		return false
	}

	if fn(item, priority) {
		// The loop may have stopped between the check and the enqueue, after its final drain
		if t.stopped() {
			t.drain()
		}

		return true
	}

	t.logger.Debugf("(task) %s: Rejecting item, mailbox busy or full", t.opts.Name)
	item.Reset()

	return false
}
