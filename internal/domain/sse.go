package domain

// StreamEventType is the wire-level event type pushed to SSE clients.
type StreamEventType string

const (
	StreamConnected  StreamEventType = "connected"
	StreamMessage    StreamEventType = "message"
	StreamToolUse    StreamEventType = "tool_use"
	StreamToolResult StreamEventType = "tool_result"
	StreamResult     StreamEventType = "result"
	StreamError      StreamEventType = "error"
	StreamHeartbeat  StreamEventType = "heartbeat"
)

// StreamEvent is one SSE message pushed to a connected client, serialized as
// `data: <json>\n\n`.
type StreamEvent struct {
	Type StreamEventType        `json:"type"`
	Data map[string]interface{} `json:"data"`
	Ts   int64                  `json:"timestamp"` // Unix milliseconds
}
