// Package console implements the debug console: a task which writes debug output, a printer which formats messages and
// sends them to that task, and an asserter which writes directly and then escalates.
package console

import (
	"context"
	"fmt"
	"io"

	"github.com/cubeplusplus/dispatch/command"
	"github.com/cubeplusplus/dispatch/task"
)

// Handler handles the commands sent to the console task.
type Handler struct {
	out io.Writer
}

var _ task.Handler[command.Command] = (*Handler)(nil)

// NewHandler creates a handler which writes debug output to the given writer.
func NewHandler(out io.Writer) *Handler {
	return &Handler{out: out}
}

// Handle writes the payload of 'CommandSendDebug' data commands, every other command is unsupported.
func (h *Handler) Handle(_ context.Context, cmd command.Command) error {
	if cmd.Global() != command.DataCommand {
		return fmt.Errorf("%w: %s", task.ErrUnsupported, cmd.Global())
	}

	switch cmd.Task() {
	case CommandSendDebug:
		if _, err := h.out.Write(cmd.Data()); err != nil {
			return fmt.Errorf("failed to write debug output: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: data command %d", task.ErrUnsupported, cmd.Task())
}

// NewTask creates the console task, which writes the debug output it's sent to 'Options.Out'.
func NewTask(opts Options, taskOpts task.Options) (*task.Task[command.Command], error) {
	opts.defaults()

	if taskOpts.Name == "" {
		taskOpts.Name = "console"
	}

	if taskOpts.Logger == nil {
		taskOpts.Logger = opts.Logger
	}

	if taskOpts.OnFatal == nil {
		taskOpts.OnFatal = opts.OnFatal
	}

	return task.New[command.Command](taskOpts, NewHandler(opts.Out))
}
