package service

import (
	"fmt"
	"log"

	"github.com/opencatalog/researchd/internal/domain"
	"github.com/opencatalog/researchd/internal/prompt"
)

// StartResearch validates the request, builds the research prompt, and
// starts an execution. The returned id is available immediately; the run
// completes in the background.
func (s *Service) StartResearch(req domain.StartResearchRequest) (*domain.StartResearchResponse, error) {
	if req.SubjectKey == "" {
		return nil, fmt.Errorf("subjectKey is required")
	}
	if len(req.InputEntries) == 0 {
		return nil, fmt.Errorf("inputEntries is required")
	}

	researchPrompt := prompt.BuildResearch(req.SubjectKey, req.InputEntries, req.MatchedContext)

	id := s.orchestrator.Start(req.SubjectKey, researchPrompt)
	log.Printf("started research execution %s for subject %s", id, req.SubjectKey)

	return &domain.StartResearchResponse{
		ExecutionID: id,
		StreamURL:   fmt.Sprintf("/v1/research/stream?executionId=%s", id),
	}, nil
}

// GetExecution returns the status snapshot of an execution, without the
// event list.
func (s *Service) GetExecution(id string) (*domain.ExecutionStatusResponse, bool) {
	snap, ok := s.registry.Snapshot(id)
	if !ok {
		return nil, false
	}
	return &domain.ExecutionStatusResponse{
		ID:         snap.ID,
		SubjectKey: snap.SubjectKey,
		Status:     snap.Status,
		Result:     snap.Result,
		Error:      snap.Error,
		EventCount: len(snap.Events),
		StartedAt:  snap.StartedAt,
		EndedAt:    snap.EndedAt,
	}, true
}

// Execution returns the full execution snapshot, events included. Used by
// the stream relay for the terminal emission.
func (s *Service) Execution(id string) (domain.Execution, bool) {
	return s.registry.Snapshot(id)
}

// EventsSince returns a copy of the events at index >= from. The stream
// relay reads through this on every poll: only the unseen tail is copied,
// not the whole event list.
func (s *Service) EventsSince(id string, from int) ([]domain.Event, bool) {
	return s.registry.EventsSince(id, from)
}

// ExecutionStatus returns the execution's current status.
func (s *Service) ExecutionStatus(id string) (domain.ExecutionStatus, bool) {
	return s.registry.Status(id)
}

// AbortResearch marks a running execution failed. Returns false when the id
// is unknown or the execution is already terminal.
func (s *Service) AbortResearch(id string) bool {
	return s.orchestrator.Abort(id)
}
