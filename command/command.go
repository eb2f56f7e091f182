// Package command defines the item exchanged between dispatch tasks: a routing header and an optional payload borrowed
// from a bounded allocator.
package command

import (
	"fmt"
	"sync/atomic"
)

// GlobalCommand is the system wide category of a command, it decides how the task specific command is interpreted.
type GlobalCommand uint8

const (
	CommandNone GlobalCommand = iota
	RequestCommand
	TimerEvent
	DataCommand
	ControlAction
	TaskSpecificCommand
)

func (g GlobalCommand) String() string {
	switch g {
	case CommandNone:
		return "none"
	case RequestCommand:
		return "request"
	case TimerEvent:
		return "timer_event"
	case DataCommand:
		return "data"
	case ControlAction:
		return "control_action"
	case TaskSpecificCommand:
		return "task_specific"
	}

	return fmt.Sprintf("unknown(%d)", uint8(g))
}

// TaskCommand is a command whose meaning is defined by the receiving task.
type TaskCommand uint16

// payload is shared by every copy of the command which owns it; 'released' makes returning it to the allocator happen
// exactly once however many copies are reset.
type payload struct {
	buf       []byte
	size      int
	allocator *Allocator
	released  atomic.Bool
}

// Command is a unit of work sent to a task. Commands are passed by value; copies share the payload, which is returned to
// its allocator by the first call to 'Reset' on any copy.
type Command struct {
	global GlobalCommand
	task   TaskCommand
	data   *payload
}

// New returns a command without a payload.
func New(global GlobalCommand, task TaskCommand) Command {
	return Command{global: global, task: task}
}

// Global returns the command's global category.
func (c Command) Global() GlobalCommand {
	return c.global
}

// Task returns the task specific command.
func (c Command) Task() TaskCommand {
	return c.task
}

// CopyData copies p into a buffer from the default allocator, see 'CopyDataWith'.
func (c *Command) CopyData(p []byte) error {
	return c.CopyDataWith(DefaultAllocator(), p)
}

// CopyDataWith copies p into a buffer borrowed from the given allocator without waiting, releasing any payload the
// command already owns.
func (c *Command) CopyDataWith(allocator *Allocator, p []byte) error {
	if len(p) > allocator.Size() {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(p), allocator.Size())
	}

	c.Reset()

	buf, ok := allocator.TryGet()
	if !ok {
		return fmt.Errorf("failed to copy %d bytes into %s command: %w", len(p), c.global, ErrExhausted)
	}

	c.data = &payload{buf: buf, size: copy(buf, p), allocator: allocator}

	return nil
}

// Data returns the command's payload, or <nil> if it has none or it has been released.
func (c Command) Data() []byte {
	if c.data == nil || c.data.released.Load() {
		return nil
	}

	return c.data.buf[:c.data.size]
}

// Size returns the length of the command's payload.
func (c Command) Size() int {
	return len(c.Data())
}

// Reset returns the payload to its allocator. It's safe to call on every copy of the command, and more than once;
// only the first call has an effect.
func (c Command) Reset() {
	if c.data == nil || !c.data.released.CompareAndSwap(false, true) {
		return
	}

	_ = c.data.allocator.Put(c.data.buf)
}

func (c Command) String() string {
	return fmt.Sprintf("%s/%d (%d bytes)", c.global, c.task, c.Size())
}
