package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// SlogLogger adapts a structured 'slog.Logger' to the 'Logger' interface. The formatted message is emitted as the
// record message, trace maps to one below debug and panic to one above error.
type SlogLogger struct {
	inner *slog.Logger
}

var _ Logger = (*SlogLogger)(nil)

// NewSlogLogger wraps the given logger, a <nil> logger results in 'slog.Default' being used.
func NewSlogLogger(inner *slog.Logger) *SlogLogger {
	if inner == nil {
		inner = slog.Default()
	}

	return &SlogLogger{inner: inner}
}

// NewJSONLogger returns a 'SlogLogger' which writes JSON lines to w, dropping anything below the given level.
func NewJSONLogger(w io.Writer, level Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: toSlogLevel(level)})))
}

// With returns a logger which attaches the given attributes to every record e.g. the component name.
func (s *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{inner: s.inner.With(args...)}
}

func (s *SlogLogger) Log(level Level, format string, args ...any) {
	s.inner.Log(context.Background(), toSlogLevel(level), fmt.Sprintf(format, args...))
}

func toSlogLevel(level Level) slog.Level {
	switch level {
	case LevelTrace:
		return slog.LevelDebug - 4
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}

	return slog.LevelError + 4
}
