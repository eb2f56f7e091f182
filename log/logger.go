// Package log provides an interface to setup logging for the dispatch substrate.
package log

import "sync"

// Logger interface which allows applications to provide custom logger implementations.
type Logger interface {
	Log(level Level, format string, args ...any)
}

var (
	// processLock guards 'process', tasks may log from their own goroutines whilst the logger is being replaced.
	processLock sync.RWMutex
	process     Logger
)

// SetLogger sets the process wide logger, used by components which are not given an explicit logger and by 'Logf'.
func SetLogger(l Logger) {
	processLock.Lock()
	defer processLock.Unlock()

	process = l
}

// Default returns the logger set using 'SetLogger', or <nil> if none has been set.
func Default() Logger {
	processLock.RLock()
	defer processLock.RUnlock()

	return process
}

// Logf logs using the process wide logger, components should prefer a 'WrappedLogger' built from their options.
//
// NOTE: If no logger has been set using 'SetLogger' the line is dropped.
func Logf(level Level, format string, args ...any) {
	if l := Default(); l != nil {
		l.Log(level, format, args...)
	}
}
