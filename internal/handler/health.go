// Package handler contains the echo handlers for the webhook intake, seat
// selection and admin routes.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the health check can probe.
type Pinger func(ctx context.Context) error

// HealthHandler answers liveness probes.  Named checks, when given, must all
// pass within two seconds.
type HealthHandler struct {
	Checks map[string]Pinger
}

// Health handles GET /healthz with a plain "ok", or 503 naming the failed
// check.
func (h *HealthHandler) Health(c echo.Context) error {
	if len(h.Checks) == 0 {
		return c.String(http.StatusOK, "ok")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			return c.String(http.StatusServiceUnavailable, name+" unavailable")
		}
	}
	return c.String(http.StatusOK, "ok")
}
