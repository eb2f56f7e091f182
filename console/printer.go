package console

import (
	"errors"

	"github.com/cubeplusplus/dispatch/command"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/pqueue"
)

// ErrScratchLockTimeout is escalated when a printer can't acquire the scratch lock in time.
var ErrScratchLockTimeout = errors.New("could not acquire scratch lock")

// Printer formats debug messages and sends them to the console task.
type Printer struct {
	opts    Options
	logger  log.WrappedLogger
	scratch [DebugPrintMaxSize]byte
}

// NewPrinter creates a printer which sends messages to 'Options.Sender'.
func NewPrinter(opts Options) *Printer {
	opts.defaults()

	return &Printer{opts: opts, logger: log.NewWrappedLogger(opts.Logger)}
}

// Printf formats the message and sends it to the console task, returns whether the message was sent. Messages longer
// than 'DebugPrintMaxSize'-1 bytes are truncated.
func (p *Printer) Printf(format string, args ...any) bool {
	release, ok := p.opts.Lock.Guard(DebugTakeTimeout)
	if !ok {
		fatal.Escalate(p.opts.OnFatal, ErrScratchLockTimeout)
		return false
	}

	defer release()

	msg := formatScratch(p.scratch[:], DebugPrintMaxSize-1, format, args...)

	cmd := command.New(command.DataCommand, CommandSendDebug)

	err := cmd.CopyDataWith(p.opts.Allocator, msg)

	release()

	if err != nil {
		p.logger.Errorf("(console) Dropping debug message: %v", err)
		return false
	}

	if p.opts.Sender == nil {
		cmd.Reset()
		return false
	}

	return p.opts.Sender.Send(cmd, pqueue.PriorityNormal)
}
