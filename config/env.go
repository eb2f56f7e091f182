package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables which override the queue section of a loaded configuration.
const (
	EnvQueueCapacity    = "DISPATCH_QUEUE_CAPACITY"
	EnvLockTimeout      = "DISPATCH_LOCK_TIMEOUT"
	EnvWakeSendTimeout  = "DISPATCH_WAKE_SEND_TIMEOUT"
	EnvMaxFaults        = "DISPATCH_MAX_FAULTS"
	EnvSeqLimit         = "DISPATCH_SEQ_LIMIT"
	EnvDisableWrapCheck = "DISPATCH_DISABLE_WRAP_CHECK"
	EnvLogLevel         = "DISPATCH_LOG_LEVEL"
)

// applyEnv overrides the queue and log settings with any set environment variables, values which fail to parse are
// ignored.
func (c *Config) applyEnv() {
	if v, ok := getInt(EnvQueueCapacity); ok {
		c.Queue.Capacity = v
	}

	if v, ok := getDuration(EnvLockTimeout); ok {
		c.Queue.LockTimeout = v
	}

	if v, ok := getDuration(EnvWakeSendTimeout); ok {
		c.Queue.WakeSendTimeout = v
	}

	if v, ok := getInt(EnvMaxFaults); ok {
		c.Queue.MaxFaults = v
	}

	if v, ok := getUint64(EnvSeqLimit); ok {
		c.Queue.SeqLimit = v
	}

	if v, ok := getBool(EnvDisableWrapCheck); ok {
		c.Queue.DisableWrapCheck = v
	}

	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
}

// getInt returns the int value of the environment variable, false if it's unset or not an int.
func getInt(name string) (int, bool) {
	env, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	val, err := strconv.Atoi(env)
	if err != nil {
		return 0, false
	}

	return val, true
}

// getUint64 returns the uint64 value of the environment variable, false if it's unset or not an unsigned int.
func getUint64(name string) (uint64, bool) {
	env, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	val, err := strconv.ParseUint(env, 10, 64)
	if err != nil {
		return 0, false
	}

	return val, true
}

// getBool returns the boolean value of the environment variable, false if it's unset or not a boolean.
func getBool(name string) (bool, bool) {
	env, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}

	val, err := strconv.ParseBool(env)
	if err != nil {
		return false, false
	}

	return val, true
}

// getDuration returns the duration value of the environment variable, false if it's unset or not a valid duration.
func getDuration(name string) (time.Duration, bool) {
	env, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}

	val, err := time.ParseDuration(env)
	if err != nil {
		return 0, false
	}

	return val, true
}
