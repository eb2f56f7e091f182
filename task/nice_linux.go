//go:build linux

package task

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// setThreadNice locks the calling goroutine to its OS thread and sets that thread's nice value. The goroutine is never
// unlocked, so the thread is discarded when the goroutine exits rather than being reused with a modified priority.
func setThreadNice(nice int) error {
	runtime.LockOSThread()

	err := unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice)
	if err != nil {
		return fmt.Errorf("failed to set nice value to %d: %w", nice, err)
	}

	return nil
}
