package task

import (
	"context"
	"errors"
	"fmt"
)

//go:generate mockery --name Handler --case underscore --inpackage

// Resetter is implemented by items which own resources that must be released once they've been dequeued.
type Resetter interface {
	Reset()
}

// Handler processes the items dequeued by a task.
//
// NOTE: Handlers must not reset the item, the task does so once the handler returns whatever the outcome.
type Handler[T Resetter] interface {
	Handle(ctx context.Context, item T) error
}

// HandlerFunc allows using a function as a 'Handler'.
type HandlerFunc[T Resetter] func(ctx context.Context, item T) error

func (f HandlerFunc[T]) Handle(ctx context.Context, item T) error { return f(ctx, item) }

// ErrUnsupported should be returned (possibly wrapped) by handlers given an item they have no handling for.
var ErrUnsupported = errors.New("unsupported command")

// HandlerPanicError is returned when a handler panics whilst handling an item.
type HandlerPanicError struct {
	Value any
}

func (e *HandlerPanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}
