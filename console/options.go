package console

import (
	"io"
	"os"
	"time"

	"github.com/cubeplusplus/dispatch/command"
	"github.com/cubeplusplus/dispatch/fatal"
	"github.com/cubeplusplus/dispatch/log"
	"github.com/cubeplusplus/dispatch/syncutil"
)

const (
	// CommandSendDebug is the data command which writes its payload to the console.
	CommandSendDebug command.TaskCommand = iota + 1
)

const (
	// DebugPrintMaxSize is the maximum size in bytes of a formatted debug message, longer messages are truncated.
	DebugPrintMaxSize = 192

	// DebugTakeTimeout is the maximum time to wait for the scratch lock when printing.
	DebugTakeTimeout = 500 * time.Millisecond

	// AssertBufferMaxSize is the maximum size in bytes of each of the assertion header and message.
	AssertBufferMaxSize = 160

	// AssertTakeTimeout is the maximum time to wait for the scratch lock when an assertion fails.
	AssertTakeTimeout = 500 * time.Millisecond
)

// scratchLock guards formatting into the scratch buffers of every printer and asserter which isn't given its own lock.
var scratchLock = syncutil.NewLock()

// Sender is implemented by the console task, debug messages are sent to it as commands.
type Sender interface {
	Send(cmd command.Command, priority uint8) bool
}

// Options encapsulates the options shared by the console components.
type Options struct {
	// Out is where debug output is written, defaults to stdout.
	Out io.Writer

	// Sender receives the commands generated by 'Printer.Printf'.
	Sender Sender

	// Allocator provides the buffers for debug payloads, defaults to 'command.DefaultAllocator'.
	Allocator *command.Allocator

	// Lock guards the scratch buffers, defaults to a lock shared process wide.
	Lock *syncutil.Lock

	// Logger is the passed Logger struct that implements the Log method for logger the user wants to use.
	Logger log.Logger

	// OnFatal is invoked when an assertion fails or the scratch lock can't be acquired, defaults to 'fatal.Default'.
	OnFatal fatal.Hook
}

// defaults fills any missing attributes to a sane default.
func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}

	if o.Allocator == nil {
		o.Allocator = command.DefaultAllocator()
	}

	if o.Lock == nil {
		o.Lock = scratchLock
	}
}
