package domain

import (
	"encoding/json"
	"time"
)

// Execution represents a single research run, from start request to terminal
// status. The registry owns the mutable fields; snapshots handed to readers
// are copies. Invariant: after creation exactly one of {Result set, Error
// set, Status == running} holds, and len(Events) never decreases.
type Execution struct {
	ID         string          `json:"id"`
	SubjectKey string          `json:"subjectKey"`
	Status     ExecutionStatus `json:"status"`
	Events     []Event         `json:"events,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"startedAt"`
	EndedAt    *time.Time      `json:"endedAt,omitempty"`
}
