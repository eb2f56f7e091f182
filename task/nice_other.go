//go:build !linux

package task

// setThreadNice is a no-op on platforms which don't support per-thread priorities.
func setThreadNice(_ int) error {
	return nil
}
