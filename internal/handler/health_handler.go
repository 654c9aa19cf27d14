package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	db        Pinger
	providers []string
}

// NewHealthHandler constructs a HealthHandler. providers lists the enabled enrichment providers.
func NewHealthHandler(db Pinger, providers []string) *HealthHandler {
	return &HealthHandler{db: db, providers: providers}
}

// Check handles GET /healthz requests.
func (h *HealthHandler) Check(c echo.Context) error {
	data := map[string]any{"status": "ok", "providers": h.providers}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			data["status"] = "degraded"
			return c.JSON(http.StatusServiceUnavailable, APIResponse{Status: "error", Message: "database unreachable", Data: data})
		}
	}
	return Success(c, http.StatusOK, "service healthy", data)
}
