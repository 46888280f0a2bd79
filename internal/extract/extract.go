// Package extract locates the JSON object intended as a run's final answer
// among the free-text segments of the agent's output. The agent may "think
// out loud" before emitting its answer, so recency is the trust heuristic:
// the most recent text event with a parseable JSON object wins.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/opencatalog/researchd/internal/domain"
)

var jsonFence = regexp.MustCompile("(?s)```json\\s*\\n?(.*?)\\n?\\s*```")

// Result scans the execution's events for an embedded JSON object, most
// recent text event first. Returns ok=false when no text event contains a
// parseable object; callers treat that as a normal failure mode, not a
// crash, since it happens whenever the agent ignores the output-format
// instruction.
func Result(events []domain.Event) (json.RawMessage, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type != domain.EventText {
			continue
		}
		var payload domain.TextPayload
		if err := json.Unmarshal(events[i].Payload, &payload); err != nil {
			continue
		}
		if result, ok := fromText(payload.Content); ok {
			return result, true
		}
	}
	return nil, false
}

// fromText tries a fenced ```json block first, then the whole trimmed block
// if it starts with "{".
func fromText(content string) (json.RawMessage, bool) {
	if m := jsonFence.FindStringSubmatch(content); m != nil {
		if result, ok := parseObject(m[1]); ok {
			return result, true
		}
	}

	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		if result, ok := parseObject(trimmed); ok {
			return result, true
		}
	}
	return nil, false
}

// parseObject accepts s only if it is, in its entirety, a valid JSON object.
func parseObject(s string) (json.RawMessage, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return json.RawMessage(strings.TrimSpace(s)), true
}
