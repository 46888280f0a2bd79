package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencatalog/researchd/internal/domain"
)

// StreamResearch republishes an execution's events to the client as an SSE
// stream. The registry has no subscription mechanism, so the relay polls on
// a short interval; a client attaching after events were appended receives
// the buffered events from its attach point, and a client attaching after
// the run is terminal still receives the final result or error.
// GET /v1/research/stream?executionId=xxx
func (h *Handler) StreamResearch(c echo.Context) error {
	executionID := c.QueryParam("executionId")
	if executionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "executionId required"})
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// send returns false when the client is gone; the caller stops polling.
	// Transport errors here never affect the execution itself.
	send := func(ev domain.StreamEvent) bool {
		data, err := json.Marshal(ev)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		w.Flush()
		return true
	}

	if !send(streamEvent(domain.StreamConnected, map[string]interface{}{"executionId": executionID})) {
		return nil
	}

	ctx := c.Request().Context()
	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	lastSent := 0
	notFound := 0

	for {
		select {
		case <-ctx.Done():
			// Client disconnect stops the relay only; the execution runs on.
			return nil

		case <-heartbeat.C:
			if !send(streamEvent(domain.StreamHeartbeat, map[string]interface{}{"executionId": executionID})) {
				return nil
			}

		case <-poll.C:
			events, ok := h.service.EventsSince(executionID, lastSent)
			if !ok {
				// Racing ahead of registry creation, or the record was
				// swept. Tolerate a bounded number of consecutive misses.
				notFound++
				if notFound >= h.notFoundLimit {
					send(streamEvent(domain.StreamError, map[string]interface{}{"error": "execution not found"}))
					return nil
				}
				continue
			}
			notFound = 0

			for _, ev := range events {
				if !send(convertEvent(executionID, ev)) {
					return nil
				}
				lastSent++
				if ev.Type == domain.EventResult || ev.Type == domain.EventError {
					// Also emit the record's own result/error: the
					// orchestrator may have finalized without the text
					// stream carrying an explicit terminal event.
					h.sendTerminal(send, executionID)
					return nil
				}
			}

			// Status left running without a terminal event: synthesize the
			// terminal emission from the record fields and close.
			if status, ok := h.service.ExecutionStatus(executionID); ok && status.Terminal() {
				h.sendTerminal(send, executionID)
				return nil
			}
		}
	}
}

// terminalGracePolls bounds how long sendTerminal waits for the record
// finalize after a terminal stream event.
const terminalGracePolls = 5

// sendTerminal emits the record's result or error field directly. The
// terminal stream event can arrive a beat ahead of the finalize (the result
// event is appended from the process read loop, extraction runs after the
// process is reaped), so the record gets a few polls to reach a terminal
// status before its fields are read.
func (h *Handler) sendTerminal(send func(domain.StreamEvent) bool, executionID string) {
	var snap domain.Execution
	for i := 0; ; i++ {
		s, ok := h.service.Execution(executionID)
		if !ok {
			return
		}
		snap = s
		if snap.Status.Terminal() || i >= terminalGracePolls {
			break
		}
		time.Sleep(h.pollInterval)
	}
	if snap.Result != nil {
		send(streamEvent(domain.StreamResult, map[string]interface{}{"result": snap.Result}))
	} else if snap.Error != "" {
		send(streamEvent(domain.StreamError, map[string]interface{}{"error": snap.Error}))
	}
}

// streamEvent builds a wire event stamped now.
func streamEvent(eventType domain.StreamEventType, data map[string]interface{}) domain.StreamEvent {
	return domain.StreamEvent{
		Type: eventType,
		Data: data,
		Ts:   time.Now().UnixMilli(),
	}
}

// convertEvent maps an execution event into the wire event schema.
func convertEvent(executionID string, ev domain.Event) domain.StreamEvent {
	out := domain.StreamEvent{Ts: ev.Ts, Data: map[string]interface{}{}}

	switch ev.Type {
	case domain.EventInit:
		var p domain.InitPayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamConnected
		out.Data = map[string]interface{}{
			"executionId": executionID,
			"sessionId":   p.SessionID,
			"model":       p.Model,
		}
	case domain.EventText:
		var p domain.TextPayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamMessage
		out.Data = map[string]interface{}{"content": p.Content, "model": p.Model}
	case domain.EventToolUse:
		var p domain.ToolUsePayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamToolUse
		out.Data = map[string]interface{}{"toolName": p.Name, "toolInput": p.Input}
	case domain.EventToolResult:
		var p domain.ToolResultPayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamToolResult
		out.Data = map[string]interface{}{"toolUseId": p.ToolUseID, "content": p.Content}
	case domain.EventResult:
		var p domain.ResultPayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamResult
		out.Data = map[string]interface{}{
			"sessionId":  p.SessionID,
			"usage":      p.Usage,
			"durationMs": p.DurationMs,
			"costUsd":    p.CostUsd,
		}
	case domain.EventError:
		var p domain.ErrorPayload
		_ = json.Unmarshal(ev.Payload, &p)
		out.Type = domain.StreamError
		out.Data = map[string]interface{}{"error": p.Message}
		if p.ExitCode != nil {
			out.Data["exitCode"] = *p.ExitCode
		}
	default:
		out.Type = domain.StreamMessage
	}

	return out
}
