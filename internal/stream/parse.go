package stream

import (
	"encoding/json"
	"strings"

	"github.com/opencatalog/researchd/internal/domain"
)

// parseLine decodes a single line of stream-json output. Returns ok=false
// for blank lines, array-wrapper artifacts (lines starting with "["), lines
// that are not valid JSON, and record types the engine does not track.
// Decode failures are never surfaced: the CLI is known to interleave
// non-protocol diagnostic lines with protocol records.
func parseLine(line string) (Message, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "[") {
		return Message{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Message{}, false
	}

	switch getString(raw, "type") {
	case "system":
		return parseSystem(raw)
	case "assistant":
		return parseAssistant(raw), true
	case "user":
		return parseUser(raw), true
	case "result":
		return parseResult(raw), true
	}
	return Message{}, false
}

// parseSystem handles "system" records; only the init subtype is tracked.
func parseSystem(raw map[string]any) (Message, bool) {
	if getString(raw, "subtype") != "init" {
		return Message{}, false
	}
	msg := Message{
		Type:      MessageInit,
		SessionID: getString(raw, "session_id"),
		Model:     getString(raw, "model"),
		Tools:     []string{},
	}
	if tools, ok := raw["tools"].([]any); ok {
		for _, t := range tools {
			if name, ok := t.(string); ok {
				msg.Tools = append(msg.Tools, name)
			}
		}
	}
	return msg, true
}

// parseAssistant handles "assistant" records, concatenating text blocks and
// collecting tool_use blocks from the nested message content array.
func parseAssistant(raw map[string]any) Message {
	msg := Message{Type: MessageAssistant}
	message := getMap(raw, "message")
	if message == nil {
		return msg
	}
	msg.Model = getString(message, "model")

	contentArr, ok := message["content"].([]any)
	if !ok {
		return msg
	}

	var texts []string
	for _, c := range contentArr {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		switch getString(cm, "type") {
		case "text":
			texts = append(texts, getString(cm, "text"))
		case "tool_use":
			tu := ToolUse{
				ID:   getString(cm, "id"),
				Name: getString(cm, "name"),
			}
			if input, ok := cm["input"]; ok {
				if data, err := json.Marshal(input); err == nil {
					tu.Input = data
				}
			}
			msg.ToolUses = append(msg.ToolUses, tu)
		}
	}
	msg.Text = strings.Join(texts, "\n")
	return msg
}

// parseUser handles "user" records, which carry tool_result blocks.
func parseUser(raw map[string]any) Message {
	msg := Message{Type: MessageUser}
	message := getMap(raw, "message")
	if message == nil {
		return msg
	}
	contentArr, ok := message["content"].([]any)
	if !ok {
		return msg
	}
	for _, c := range contentArr {
		cm, ok := c.(map[string]any)
		if !ok || getString(cm, "type") != "tool_result" {
			continue
		}
		tr := ToolResult{ToolUseID: getString(cm, "tool_use_id")}
		if content, ok := cm["content"]; ok {
			if data, err := json.Marshal(content); err == nil {
				tr.Content = data
			}
		}
		msg.ToolResults = append(msg.ToolResults, tr)
	}
	return msg
}

// parseResult handles "result" records (turn completion with usage/cost).
func parseResult(raw map[string]any) Message {
	info := &ResultInfo{
		DurationMs: getInt(raw, "duration_ms"),
		CostUsd:    getFloat(raw, "cost_usd"),
	}
	if isError, ok := raw["is_error"].(bool); ok {
		info.IsError = isError
	}
	if result := getMap(raw, "result"); result != nil {
		info.SessionID = getString(result, "session_id")
		if usage := getMap(result, "usage"); usage != nil {
			info.Usage = &domain.Usage{
				InputTokens:  getInt(usage, "input_tokens"),
				OutputTokens: getInt(usage, "output_tokens"),
			}
		}
	}
	return Message{Type: MessageResult, Result: info}
}

// --- Safe JSON extraction helpers ---

// getString safely extracts a string field from a map.
func getString(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

// getInt safely extracts a numeric field as int from a map.
// JSON numbers are decoded as float64 by encoding/json.
func getInt(m map[string]any, key string) int {
	v, ok := m[key].(float64)
	if !ok {
		return 0
	}
	return int(v)
}

// getFloat safely extracts a float64 field from a map.
func getFloat(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)
	return v
}

// getMap safely extracts a nested map from a map.
func getMap(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}
