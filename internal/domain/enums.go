// Package domain defines the core domain models for the research engine.
package domain

// ExecutionStatus represents the lifecycle status of an execution.
type ExecutionStatus string

const (
	StatusRunning   ExecutionStatus = "running"
	StatusCompleted ExecutionStatus = "completed"
	StatusFailed    ExecutionStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
// Status is monotonic: once terminal, an execution never reverts to running.
func (s ExecutionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// EventType represents the type of an execution event.
type EventType string

const (
	EventInit       EventType = "init"
	EventText       EventType = "text"
	EventToolUse    EventType = "tool_use"
	EventToolResult EventType = "tool_result"
	EventResult     EventType = "result"
	EventError      EventType = "error"
)
