// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/satvik-sharma-05/movieBooking/internal/handler"
	"github.com/satvik-sharma-05/movieBooking/internal/middleware"
	"github.com/satvik-sharma-05/movieBooking/internal/utils"
)

// RegisterRoutes registers the unauthenticated operational routes.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterWebhooks registers the identity-provider webhook and the event-bus
// ingress.  Both share one handler; limiter guards them against floods.
func RegisterWebhooks(e *echo.Echo, w *handler.WebhookHandler, limiter echo.MiddlewareFunc) {
	e.POST("/api/webhooks/clerk", w.Receive, limiter)
	e.POST("/api/inngest", w.Receive, limiter)
}

// RegisterSelection registers the seat layout and selection routes.  The
// layout is static and goes through the response cache.
func RegisterSelection(e *echo.Echo, s *handler.SelectionHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.GET("/seats/layout", s.Layout, cache)
	g.POST("/selection", s.Apply)
}

// RegisterAdmin registers operator routes behind a bearer token with the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(utils.RoleAdmin))
	g.GET("/users/:externalId", a.GetUser)
}
