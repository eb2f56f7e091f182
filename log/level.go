package log

import (
	"errors"
	"fmt"
	"strings"
)

// Level is a type alias which is used to indicate the verbosity of an log statement.
type Level uint8

const (
	// LevelTrace is the most verbose log level, used for per-item queue activity.
	LevelTrace Level = iota

	// LevelDebug includes fine-grained informational events such as lock timeouts and wake re-signals.
	LevelDebug

	// LevelInfo includes informational messages that highlight task lifecycle events at a course-grained level.
	LevelInfo

	// LevelWarning includes expected but potentially harmful/interesting events, for example a repaired consistency
	// fault or an unsupported command.
	LevelWarning

	// LevelError includes error events which may still allow the system to continue running.
	LevelError

	// LevelPanic includes errors events which should lead to a panic. This level is only used on the fatal escalation
	// path.
	LevelPanic
)

// String returns the four character prefix used when printing the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRAC"
	case LevelDebug:
		return "DEBU"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERRO"
	case LevelPanic:
		return "PNIC"
	}

	return "UNKN"
}

// ErrUnknownLevel is returned when parsing a level name which isn't recognized.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel returns the level with the given name, accepting both the full names ("warning") and the printed prefixes
// ("WARN") in any case.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "trace", "trac":
		return LevelTrace, nil
	case "debug", "debu":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error", "erro":
		return LevelError, nil
	case "panic", "pnic":
		return LevelPanic, nil
	}

	return 0, fmt.Errorf("%w '%s'", ErrUnknownLevel, name)
}
