package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/satvik-sharma-05/movieBooking/internal/handler"
)

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func TestRoutesRegistered(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, &handler.HealthHandler{})
	RegisterWebhooks(e, &handler.WebhookHandler{}, passthrough)
	RegisterSelection(e, handler.NewSelectionHandler(), passthrough)
	RegisterAdmin(e, &handler.AdminHandler{}, "s3cret")

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /api/webhooks/clerk",
		"POST /api/inngest",
		"GET /v1/seats/layout",
		"POST /v1/selection",
		"GET /v1/admin/users/:externalId",
	} {
		assert.True(t, got[want], want)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	e := echo.New()
	RegisterAdmin(e, &handler.AdminHandler{}, "s3cret")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/users/u_1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
