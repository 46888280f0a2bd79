// Package stream decodes the agent CLI's newline-delimited stream-json
// output into typed messages. The CLI interleaves non-protocol diagnostic
// lines and array-wrapper artifacts with protocol records; everything that
// does not decode is dropped silently.
package stream

import (
	"encoding/json"

	"github.com/opencatalog/researchd/internal/domain"
)

// MessageType discriminates the decoded stream-json record union.
type MessageType string

const (
	MessageInit      MessageType = "init"
	MessageAssistant MessageType = "assistant"
	MessageUser      MessageType = "user"
	MessageResult    MessageType = "result"
)

// ToolUse is one tool invocation block inside an assistant message.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ToolResult is one tool_result block inside a user message.
type ToolResult struct {
	ToolUseID string
	Content   json.RawMessage
}

// ResultInfo carries turn-completion metadata from a result record.
type ResultInfo struct {
	SessionID  string
	Usage      *domain.Usage
	DurationMs int
	CostUsd    float64
	IsError    bool
}

// Message is one decoded stream-json record. Only the fields for the
// record's Type are populated.
type Message struct {
	Type MessageType

	// init
	SessionID string
	Model     string
	Tools     []string

	// assistant
	Text     string
	ToolUses []ToolUse

	// user
	ToolResults []ToolResult

	// result
	Result *ResultInfo
}
