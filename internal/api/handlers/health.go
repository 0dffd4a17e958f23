// Package handlers implements HTTP handlers for the apple-stock-notifier API.
package handlers

import (
	"context"
	"maps"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a HealthHandler. Readiness requires every named
// check to pass.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Healthz returns 200 if the process is running.
//
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /healthz [get]
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every check passes, 503 with the failing check names
// otherwise.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /readyz [get]
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()

	var failed []string
	for _, name := range slices.Sorted(maps.Keys(h.checks)) {
		if err := h.checks[name].Ping(ctx); err != nil {
			failed = append(failed, name)
		}
	}

	if len(failed) > 0 {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{
			Status: "unavailable",
			Failed: failed,
		})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
