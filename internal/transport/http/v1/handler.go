// Package v1 provides the HTTP handlers for the research engine.
package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/opencatalog/researchd/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service

	// Relay tuning, taken from the service config. Overridable in tests.
	pollInterval      time.Duration
	heartbeatInterval time.Duration
	notFoundLimit     int
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	cfg := svc.Config()
	return &Handler{
		service:           svc,
		pollInterval:      cfg.StreamPollInterval,
		heartbeatInterval: cfg.HeartbeatInterval,
		notFoundLimit:     cfg.StreamNotFoundLimit,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/research", h.StartResearch)
	e.GET("/v1/research", h.GetResearch)
	e.GET("/v1/research/stream", h.StreamResearch)
	e.POST("/v1/research/:execution_id/abort", h.AbortResearch)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
