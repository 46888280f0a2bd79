package domain

import (
	"encoding/json"
	"time"
)

// Event is one typed, timestamped unit of progress derived from the agent
// process output stream. Events are immutable once appended to an execution.
type Event struct {
	Type    EventType       `json:"type"`
	Ts      int64           `json:"timestamp"` // Unix milliseconds
	Payload json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an event with the current capture timestamp.
// Marshal failures are not expected for the payload types in this package;
// a failure yields an event with an empty payload rather than an error.
func NewEvent(eventType EventType, payload interface{}) Event {
	data, err := json.Marshal(payload)
	if err != nil {
		data = nil
	}
	return Event{
		Type:    eventType,
		Ts:      time.Now().UnixMilli(),
		Payload: data,
	}
}

// InitPayload is the payload of an init event.
type InitPayload struct {
	SessionID string   `json:"sessionId"`
	Model     string   `json:"model,omitempty"`
	Tools     []string `json:"tools"`
}

// TextPayload is the payload of a text event.
type TextPayload struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// ToolUsePayload is the payload of a tool_use event.
type ToolUsePayload struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResultPayload is the payload of a tool_result event.
type ToolResultPayload struct {
	ToolUseID string          `json:"toolUseId"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// Usage represents token usage reported by the agent process.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

// ResultPayload is the payload of a result event (turn completion).
type ResultPayload struct {
	SessionID  string  `json:"sessionId,omitempty"`
	Usage      *Usage  `json:"usage,omitempty"`
	DurationMs int     `json:"durationMs,omitempty"`
	CostUsd    float64 `json:"costUsd,omitempty"`
	IsError    bool    `json:"isError,omitempty"`
}

// ErrorPayload is the payload of an error event.
type ErrorPayload struct {
	Message  string `json:"message"`
	ExitCode *int   `json:"exitCode,omitempty"`
}
