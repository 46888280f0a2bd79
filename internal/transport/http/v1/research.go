package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opencatalog/researchd/internal/domain"
)

// StartResearch starts a research execution.
// POST /v1/research
func (h *Handler) StartResearch(c echo.Context) error {
	var req domain.StartResearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if req.SubjectKey == "" || len(req.InputEntries) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "subjectKey and inputEntries are required"})
	}

	resp, err := h.service.StartResearch(req)
	if err != nil {
		// Operator-facing error; safe to surface the message directly.
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// GetResearch returns a status snapshot of an execution.
// GET /v1/research?executionId=xxx
func (h *Handler) GetResearch(c echo.Context) error {
	executionID := c.QueryParam("executionId")
	if executionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "executionId required"})
	}

	// Not-found covers both "never existed" and "already swept".
	resp, ok := h.service.GetExecution(executionID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "execution not found"})
	}

	return c.JSON(http.StatusOK, resp)
}

// AbortResearch marks a running execution failed.
// POST /v1/research/:execution_id/abort
func (h *Handler) AbortResearch(c echo.Context) error {
	executionID := c.Param("execution_id")

	if !h.service.AbortResearch(executionID) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "execution not found or not running"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":     executionID,
		"status": domain.StatusFailed,
	})
}
