package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/researchd/internal/config"
	"github.com/opencatalog/researchd/internal/domain"
	"github.com/opencatalog/researchd/internal/orchestrator"
	"github.com/opencatalog/researchd/internal/registry"
)

func newTestService() (*Service, *registry.Registry) {
	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Config{
		Command: "sh",
		Args:    []string{"-c", "cat >/dev/null\nexit 1"},
		Timeout: 5 * time.Second,
	})
	return New(reg, orch, config.Load()), reg
}

func TestStartResearchValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.StartResearch(domain.StartResearchRequest{
		InputEntries: []domain.InputEntry{{Code: "X1"}},
	})
	assert.Error(t, err)

	_, err = svc.StartResearch(domain.StartResearchRequest{SubjectKey: "G86"})
	assert.Error(t, err)
}

func TestStartResearchReturnsStreamURL(t *testing.T) {
	svc, reg := newTestService()

	resp, err := svc.StartResearch(domain.StartResearchRequest{
		SubjectKey:   "G86",
		InputEntries: []domain.InputEntry{{Code: "X1"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/research/stream?executionId="+resp.ExecutionID, resp.StreamURL)

	snap, ok := reg.Snapshot(resp.ExecutionID)
	require.True(t, ok)
	assert.Equal(t, "G86", snap.SubjectKey)
}

func TestGetExecutionOmitsEvents(t *testing.T) {
	svc, reg := newTestService()

	reg.Create("exec_x", "G86")
	reg.Append("exec_x", domain.NewEvent(domain.EventText, domain.TextPayload{Content: "hi"}))

	resp, ok := svc.GetExecution("exec_x")
	require.True(t, ok)
	assert.Equal(t, 1, resp.EventCount)
	assert.Equal(t, domain.StatusRunning, resp.Status)

	_, ok = svc.GetExecution("exec_missing")
	assert.False(t, ok)
}
