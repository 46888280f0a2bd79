package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencatalog/researchd/internal/config"
	"github.com/opencatalog/researchd/internal/domain"
	"github.com/opencatalog/researchd/internal/orchestrator"
	"github.com/opencatalog/researchd/internal/registry"
	"github.com/opencatalog/researchd/internal/service"
)

// newTestHandler wires a handler over a real registry with a stub agent
// command and fast relay intervals.
func newTestHandler(script string) (*Handler, *registry.Registry) {
	reg := registry.New()
	orch := orchestrator.New(reg, orchestrator.Config{
		Command: "sh",
		Args:    []string{"-c", script},
		Timeout: 5 * time.Second,
	})

	cfg := config.Load()
	cfg.StreamPollInterval = 2 * time.Millisecond
	cfg.HeartbeatInterval = time.Hour
	cfg.StreamNotFoundLimit = 3

	svc := service.New(reg, orch, cfg)
	return NewHandler(svc), reg
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestStartResearch(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler("cat >/dev/null\nexit 1")

	body := `{"subjectKey":"G86","inputEntries":[{"code":"X1","description":"hip set"}]}`
	req := jsonRequest(http.MethodPost, "/v1/research", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.StartResearch(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.StartResearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ExecutionID, "exec_"), "id: %s", resp.ExecutionID)
	assert.Equal(t, "/v1/research/stream?executionId="+resp.ExecutionID, resp.StreamURL)
}

func TestStartResearchValidation(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler("exit 0")

	cases := []struct {
		name string
		body string
	}{
		{"missing subjectKey", `{"inputEntries":[{"code":"X1"}]}`},
		{"empty inputEntries", `{"subjectKey":"G86","inputEntries":[]}`},
		{"missing inputEntries", `{"subjectKey":"G86"}`},
		{"malformed body", `{"subjectKey":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/v1/research", tc.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.StartResearch(c)
			assert.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetResearch(t *testing.T) {
	e := echo.New()
	handler, reg := newTestHandler("exit 0")

	reg.Create("exec_abc", "G86")
	reg.Append("exec_abc", domain.NewEvent(domain.EventText, domain.TextPayload{Content: "working"}))
	reg.Finalize("exec_abc", domain.StatusCompleted, json.RawMessage(`{"components":[]}`), "")

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/research?executionId=exec_abc", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.GetResearch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp domain.ExecutionStatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "exec_abc", resp.ID)
		assert.Equal(t, domain.StatusCompleted, resp.Status)
		assert.Equal(t, 1, resp.EventCount)
		assert.JSONEq(t, `{"components":[]}`, string(resp.Result))
		assert.NotNil(t, resp.EndedAt)
	})

	t.Run("missing parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/research", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.GetResearch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/research?executionId=exec_nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := handler.GetResearch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAbortResearch(t *testing.T) {
	e := echo.New()
	handler, reg := newTestHandler("exit 0")

	reg.Create("exec_run", "G86")

	t.Run("running execution", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/research/exec_run/abort", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/research/:execution_id/abort")
		c.SetParamNames("execution_id")
		c.SetParamValues("exec_run")

		err := handler.AbortResearch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		snap, _ := reg.Snapshot("exec_run")
		assert.Equal(t, domain.StatusFailed, snap.Status)
	})

	t.Run("already terminal", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/research/exec_run/abort", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/v1/research/:execution_id/abort")
		c.SetParamNames("execution_id")
		c.SetParamValues("exec_run")

		err := handler.AbortResearch(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHealth(t *testing.T) {
	e := echo.New()
	handler, _ := newTestHandler("exit 0")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Health(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
