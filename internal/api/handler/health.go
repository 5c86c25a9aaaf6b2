package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler takes named dependencies; nil entries are skipped so that
// optional backends such as Redis stay out of readiness when disabled.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	checked := make(map[string]Pinger, len(deps))
	for name, p := range deps {
		if p != nil {
			checked[name] = p
		}
	}
	return &HealthHandler{deps: checked}
}

// Liveness handles GET /health.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.deps))
	healthy := true
	for name, p := range h.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	if !healthy {
		return c.JSON(http.StatusServiceUnavailable, readinessResponse{Status: "degraded", Dependencies: deps})
	}
	return c.JSON(http.StatusOK, readinessResponse{Status: "ok", Dependencies: deps})
}
