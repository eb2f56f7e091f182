// Package elutil provides a service which allows asynchronously reporting events, such as repaired queue consistency
// faults, to a sink.
package elutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cubeplusplus/dispatch/hofp"
	"github.com/cubeplusplus/dispatch/log"
)

const (
	// MaxEncodedLength is the maximum size of the JSON encoded event.
	MaxEncodedLength = 3 * 1024

	// MaxBufferedEventsPerDispatcher is the default number of events (and minimum) number of events that can be buffered
	// per-goroutine.
	MaxBufferedEventsPerDispatcher = 8
)

// ErrTooLarge is returned when an encoded event exceeds 'MaxEncodedLength'.
var ErrTooLarge = errors.New("encoded event is too large")

// RetriesExhaustedError is returned once every attempt to post an event has failed, unwrapping it returns the error
// from the last attempt.
type RetriesExhaustedError struct {
	attempts int
	err      error
}

func (r *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("exhausted retry count after %d attempts: %s", r.attempts, r.err)
}

func (r *RetriesExhaustedError) Unwrap() error {
	return r.err
}

// ServiceOptions encapsulates the options available when creating a new event service.
type ServiceOptions struct {
	// Sink is where encoded events are posted, defaults to a 'LogSink' at the warning level.
	Sink Sink

	// The number of goroutines to create for reporting events.
	Dispatchers int

	// MaxBufferedEventsPerDispatcher directly maps to the 'hofp.BufferMultiplier' value, and dictates the number of events
	// that can be buffered per-goroutine.
	MaxBufferedEventsPerDispatcher int

	// Retries is the number of additional attempts made to post an event after the sink fails, defaults to none.
	Retries int

	// RetryDelay is multiplied by the attempt number to give the backoff between attempts, defaults to 50ms.
	RetryDelay time.Duration

	// Logger is the passed Logger struct that implements the Log method for logger the user wants to use.
	Logger log.Logger
}

// Service reports events asynchronously, it never blocks the reporter; events which can't be buffered are logged and
// dropped.
type Service struct {
	pool       *hofp.Pool
	sink       Sink
	retries    int
	retryDelay time.Duration
	logger     log.WrappedLogger
}

var _ Reporter = (*Service)(nil)

// NewService creates a new service using the given options.
func NewService(options ServiceOptions) *Service {
	sink := options.Sink
	if sink == nil {
		sink = &LogSink{Logger: options.Logger, Level: log.LevelWarning}
	}

	pool := hofp.NewPool(hofp.Options{
		Size:             max(1, options.Dispatchers),
		BufferMultiplier: max(MaxBufferedEventsPerDispatcher, options.MaxBufferedEventsPerDispatcher),
		LogPrefix:        "(elutil)",
		Logger:           options.Logger,
	})

	retryDelay := options.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 50 * time.Millisecond
	}

	return &Service{
		pool:       pool,
		sink:       sink,
		retries:    max(0, options.Retries),
		retryDelay: retryDelay,
		logger:     log.NewWrappedLogger(options.Logger),
	}
}

// Report the given event asynchronously, logging event/error if we fail to do so.
func (s *Service) Report(event Event) {
	queued, err := s.pool.TryQueue(func(ctx context.Context) error {
		err := s.report(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to report event '%#v': %w", event, err)
		}

		return nil
	})

	if err != nil {
		s.logger.Errorf("(elutil) Failed to queue event '%#v' due to error '%s'", event, err)
		return
	}

	if !queued {
		s.logger.Warnf("(elutil) Dropping event '%#v', too many events buffered", event)
	}
}

// report the given event synchronously.
func (s *Service) report(ctx context.Context, event Event) error {
	encoded, err := event.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if len(encoded) > MaxEncodedLength {
		return ErrTooLarge
	}

	return s.post(ctx, encoded)
}

// post the encoded event to the sink, retrying with a linear backoff.
func (s *Service) post(ctx context.Context, encoded []byte) error {
	var err error

	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			s.logger.Debugf("(elutil) Retrying post, attempt %d/%d: %v", attempt, s.retries, err)

			if sleepErr := sleep(ctx, time.Duration(attempt)*s.retryDelay); sleepErr != nil {
				return sleepErr
			}
		}

		err = s.sink.Post(ctx, encoded)
		if err == nil {
			return nil
		}
	}

	if s.retries == 0 {
		return err
	}

	return &RetriesExhaustedError{attempts: s.retries + 1, err: err}
}

func sleep(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed returns the number of events which could not be posted to the sink.
func (s *Service) Failed() uint64 {
	return s.pool.Failed()
}

// Close gracefully stops the service, reporting any buffered events.
//
// NOTE: A service being used after closure logs and drops events.
func (s *Service) Close() {
	s.pool.Stop() //nolint:errcheck
}
