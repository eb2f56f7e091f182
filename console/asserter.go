package console

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/cubeplusplus/dispatch/fatal"
)

// AssertionError is escalated when an assertion fails.
type AssertionError struct {
	File    string
	Line    int
	Message string
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("assertion failed at %s:%d", e.File, e.Line)
	}

	return fmt.Sprintf("assertion failed at %s:%d: %s", e.File, e.Line, e.Message)
}

// Asserter checks conditions which must hold, writing failures straight to the console output rather than through the
// console task since the system is about to be escalated.
type Asserter struct {
	opts    Options
	scratch [AssertBufferMaxSize]byte
}

// NewAsserter creates an asserter which writes failures to 'Options.Out'.
func NewAsserter(opts Options) *Asserter {
	opts.defaults()

	return &Asserter{opts: opts}
}

// Assert escalates through the fatal hook when cond is false, after writing an assertion header identifying the
// caller and the formatted message.
func (a *Asserter) Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "PATH_UNKNOWN"
	}

	err := &AssertionError{File: filepath.Base(file), Line: line}

	// Without the scratch lock only the escalation happens
	release, locked := a.opts.Lock.Guard(AssertTakeTimeout)
	if locked {
		defer release()

		header := formatScratch(a.scratch[:], AssertBufferMaxSize-1,
			"\r\n\n-- ASSERTION FAILED --\r\nFile [%s] @ Line # [%d]\r\n", err.File, err.Line)

		_, _ = a.opts.Out.Write(header)

		if format != "" {
			msg := formatScratch(a.scratch[:], AssertBufferMaxSize-1, format, args...)
			err.Message = string(msg)

			_, _ = a.opts.Out.Write(msg)
			_, _ = a.opts.Out.Write([]byte("\r\n"))
		}

		release()
	}

	fatal.Escalate(a.opts.OnFatal, err)
}
