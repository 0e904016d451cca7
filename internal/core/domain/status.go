package domain

import "strings"

// TaskStatus represents the lifecycle state of a task within a run.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting for dependencies.
	StatusPending TaskStatus = "pending"
	// StatusReady indicates every dependency is done and the task waits for a worker.
	StatusReady TaskStatus = "ready"
	// StatusRunning indicates the task body is executing or awaiting emitted tasks.
	StatusRunning TaskStatus = "running"
	// StatusDone indicates the task executed successfully and its artifact was written.
	StatusDone TaskStatus = "done"
	// StatusCached indicates the task was skipped because its artifact already existed.
	StatusCached TaskStatus = "cached"
	// StatusFailed indicates the task body, or a task it emitted, failed.
	StatusFailed TaskStatus = "failed"
	// StatusCancelled indicates the task was never started because a dependency failed.
	StatusCancelled TaskStatus = "cancelled"
)

// IsTerminal checks if a status is a terminal state.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusDone, StatusCached, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsSuccess reports whether dependents may proceed past a task in this state.
func (s TaskStatus) IsSuccess() bool {
	return s == StatusDone || s == StatusCached
}

// NormalizeTaskStatus converts a string to a TaskStatus, defaulting to pending if unknown.
func NormalizeTaskStatus(s string) TaskStatus {
	switch st := TaskStatus(strings.ToLower(s)); st {
	case StatusReady, StatusRunning, StatusDone, StatusCached, StatusFailed, StatusCancelled:
		return st
	default:
		return StatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// ParseLogLevel converts a level name into a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
