package elutil

import (
	"context"

	"github.com/cubeplusplus/dispatch/log"
)

//go:generate mockgen -source=sink.go -destination=mock_sink.go -package=elutil

// Sink is the destination for encoded events.
type Sink interface {
	Post(ctx context.Context, encoded []byte) error
}

// LogSink writes encoded events to a logger at the given level.
type LogSink struct {
	Logger log.Logger
	Level  log.Level
}

var _ Sink = (*LogSink)(nil)

func (l *LogSink) Post(_ context.Context, encoded []byte) error {
	logger := log.NewWrappedLogger(l.Logger)
	logger.Log(l.Level, "(elutil) %s", encoded)

	return nil
}
