package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HandleHealth handles GET /v1/health requests.
func (h *HealthHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "summary-pipeline",
	})
}
