package domain

import (
	"encoding/json"
	"time"
)

// InputEntry is one caller-supplied catalog entry for a product group.
// The engine forwards these to the prompt builder; their content is opaque
// to execution tracking.
type InputEntry struct {
	Code         string  `json:"code"`
	Description  string  `json:"description,omitempty"`
	PriceEUR     float64 `json:"priceEur,omitempty"`
	PriceScope   string  `json:"priceScope,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	Country      string  `json:"country,omitempty"`
}

// MatchedProduct is a catalog product already matched to the group, passed
// through as pricing context for the research prompt.
type MatchedProduct struct {
	Name         string  `json:"name"`
	Manufacturer string  `json:"manufacturer,omitempty"`
	PriceEUR     float64 `json:"priceEur,omitempty"`
	EmdnCode     string  `json:"emdnCode,omitempty"`
}

// StartResearchRequest is the body of POST /v1/research.
type StartResearchRequest struct {
	SubjectKey     string           `json:"subjectKey"`
	InputEntries   []InputEntry     `json:"inputEntries"`
	MatchedContext []MatchedProduct `json:"matchedContext,omitempty"`
}

// StartResearchResponse is returned when an execution has been started.
type StartResearchResponse struct {
	ExecutionID string `json:"executionId"`
	StreamURL   string `json:"streamUrl"`
}

// ExecutionStatusResponse is the synchronous status snapshot of an
// execution. It deliberately omits the event list; replaying events is the
// stream endpoint's job.
type ExecutionStatusResponse struct {
	ID         string          `json:"id"`
	SubjectKey string          `json:"subjectKey"`
	Status     ExecutionStatus `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
	EventCount int             `json:"eventCount"`
	StartedAt  time.Time       `json:"startedAt"`
	EndedAt    *time.Time      `json:"endedAt,omitempty"`
}
