package pqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrFaultThresholdExceeded is the root of the error passed to the fatal hook once a queue has seen too many
	// consistency faults to be trusted.
	ErrFaultThresholdExceeded = errors.New("queue consistency faults exceeded limit")

	// ErrInvalidCapacity is returned when creating a queue with a non-positive capacity, or one which exceeds the
	// sequence numbers available.
	ErrInvalidCapacity = errors.New("invalid capacity")

	// ErrInvalidSeqLimit is returned when the sequence limit can't be represented by the sequence type.
	ErrInvalidSeqLimit = errors.New("invalid sequence limit")
)

// FaultThresholdExceededError is escalated when the number of unrepaired consistency faults reaches the configured
// maximum.
type FaultThresholdExceededError struct {
	Queue  string
	Faults int
	Max    int
}

func (e *FaultThresholdExceededError) Error() string {
	return fmt.Sprintf("queue '%s' saw %d consistency faults (max %d): %s", e.Queue, e.Faults, e.Max,
		ErrFaultThresholdExceeded)
}

func (e *FaultThresholdExceededError) Unwrap() error {
	return ErrFaultThresholdExceeded
}
