package elutil

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubeplusplus/dispatch/log"
)

func TestNewService(t *testing.T) {
	service := NewService(ServiceOptions{})
	require.NotNil(t, service)
	require.NotNil(t, service.pool)
	require.IsType(t, &LogSink{}, service.sink)
	require.Equal(t, 1, service.pool.Size())
	service.Close()
}

func TestServiceReport(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	var actual map[string]any

	sink.EXPECT().Post(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, encoded []byte) error {
		return json.Unmarshal(encoded, &actual)
	})

	service := NewService(ServiceOptions{Sink: sink})
	service.Report(Event{EventID: EventConsistencyFault, Component: ComponentPQueue})

	// Close flushes any buffered events
	service.Close()

	require.Equal(t, float64(EventConsistencyFault), actual["event_id"])
	require.Equal(t, "pqueue", actual["component"])
}

func TestServiceReportTooBig(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	service := NewService(ServiceOptions{Sink: sink})
	defer service.Close()

	err := service.report(context.Background(), Event{
		EventID:         42,
		ExtraAttributes: map[string]any{"key": strings.Repeat("value", 650)},
	})
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestServiceReportSinkError(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(assert.AnError)

	service := NewService(ServiceOptions{Sink: sink})
	defer service.Close()

	require.ErrorIs(t, service.report(context.Background(), Event{EventID: 42}), assert.AnError)
}

func TestServiceReportCountsFailures(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	gomock.InOrder(
		sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(assert.AnError),
		sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(nil),
	)

	service := NewService(ServiceOptions{Sink: sink})
	service.Report(Event{EventID: 42})
	service.Report(Event{EventID: 43})
	service.Close()

	require.Equal(t, uint64(1), service.Failed())
}

// Smoke test to ensure that the 'Report' function is asynchronous.
func TestServiceReportIsAsync(t *testing.T) {
	var (
		ctrl    = gomock.NewController(t)
		sink    = NewMockSink(ctrl)
		release = make(chan struct{})
	)

	sink.EXPECT().Post(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ []byte) error {
		<-release
		return nil
	}).AnyTimes()

	service := NewService(ServiceOptions{Sink: sink})

	// Should not block even once the buffer is exhausted, additional events are dropped
	for i := 0; i < 2*MaxBufferedEventsPerDispatcher; i++ {
		service.Report(Event{EventID: EventID(i)})
	}

	close(release)
	service.Close()
}

type capturingLogger struct {
	lines []string
}

func (c *capturingLogger) Log(level log.Level, format string, args ...any) {
	c.lines = append(c.lines, level.String())
}

func TestLogSink(t *testing.T) {
	var logger capturingLogger

	sink := &LogSink{Logger: &logger, Level: log.LevelWarning}
	require.NoError(t, sink.Post(context.Background(), []byte(`{"event_id":1}`)))
	require.Equal(t, []string{"WARN"}, logger.lines)
}

func TestServiceReportRetries(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	gomock.InOrder(
		sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(assert.AnError).Times(2),
		sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(nil),
	)

	service := NewService(ServiceOptions{Sink: sink, Retries: 2, RetryDelay: time.Millisecond})
	defer service.Close()

	require.NoError(t, service.report(context.Background(), Event{EventID: 42}))
}

func TestServiceReportRetriesExhausted(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(assert.AnError).Times(3)

	service := NewService(ServiceOptions{Sink: sink, Retries: 2, RetryDelay: time.Millisecond})
	defer service.Close()

	err := service.report(context.Background(), Event{EventID: 42})

	var exhausted *RetriesExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.ErrorIs(t, err, assert.AnError)
}

func TestServiceReportRetryCancelled(t *testing.T) {
	var (
		ctrl = gomock.NewController(t)
		sink = NewMockSink(ctrl)
	)

	sink.EXPECT().Post(gomock.Any(), gomock.Any()).Return(assert.AnError)

	service := NewService(ServiceOptions{Sink: sink, Retries: 2, RetryDelay: time.Hour})
	defer service.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, service.report(ctx, Event{EventID: 42}), context.DeadlineExceeded)
}
