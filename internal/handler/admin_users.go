package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
	"github.com/satvik-sharma-05/movieBooking/internal/usersync"
)

// UserLookup finds a synced user by identity-provider id.
type UserLookup interface {
	Lookup(ctx context.Context, externalID string) (model.User, error)
}

// AdminHandler exposes read-only views of synced data to operators.
type AdminHandler struct {
	Users UserLookup
	Log   *slog.Logger
}

func NewAdminHandler(users UserLookup, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{Users: users, Log: logger}
}

// GetUser handles GET /v1/admin/users/:externalId.
func (h *AdminHandler) GetUser(c echo.Context) error {
	id := strings.TrimSpace(c.Param("externalId"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "externalId required"})
	}

	u, err := h.Users.Lookup(c.Request().Context(), id)
	var nf *usersync.NotFoundError
	switch {
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case err != nil:
		h.Log.Error("admin: user lookup failed", "external_id", id, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, u)
}
