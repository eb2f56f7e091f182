package task

import (
	"errors"
	"fmt"
)

// ErrAlreadyInitialized is the root of the error escalated when a task is started more than once.
var ErrAlreadyInitialized = errors.New("task already initialized")

// ProgrammingError is escalated through the fatal hook for misuse which can't be recovered from by retrying.
type ProgrammingError struct {
	Task string
	Err  error
}

func (e *ProgrammingError) Error() string {
	return fmt.Sprintf("programming error in task '%s': %s", e.Task, e.Err)
}

func (e *ProgrammingError) Unwrap() error {
	return e.Err
}
