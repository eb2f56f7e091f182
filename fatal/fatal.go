// Package fatal provides the escalation path for conditions which must not be handled locally, such as a queue whose
// internal structures keep diverging, or a task being initialized twice.
package fatal

import (
	"github.com/cubeplusplus/dispatch/log"
)

// Hook is invoked with the error which could not be recovered from. In production it is expected not to return (it
// should reset/exit the process); tests may install a hook which records the error and returns.
type Hook func(err error)

// Default logs the error at the panic level using the process wide logger and then panics.
func Default(err error) {
	log.Logf(log.LevelPanic, "(fatal) Unrecoverable error: %v", err)
	panic(err)
}

// Escalate passes err to the given hook, using 'Default' where the hook is <nil>.
func Escalate(hook Hook, err error) {
	if hook == nil {
		hook = Default
	}

	hook(err)
}
