package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satvik-sharma-05/movieBooking/internal/booking"
)

// Selection actions.
const (
	ActionSelectTime = "select_time"
	ActionToggleSeat = "toggle_seat"
)

type selectionAction struct {
	Type string `json:"type" validate:"required,oneof=select_time toggle_seat"`
	Time string `json:"time" validate:"required_if=Type select_time"`
	Seat string `json:"seat" validate:"required_if=Type toggle_seat"`
}

type selectionReq struct {
	State  booking.Selection `json:"state"`
	Action selectionAction   `json:"action"`
}

type selectionResp struct {
	State   booking.Selection `json:"state"`
	Notice  string            `json:"notice,omitempty"`
	Message string            `json:"message,omitempty"`
}

// SelectionHandler serves the seat layout and applies selection actions.
// The server keeps no selection state; clients send theirs with each action.
type SelectionHandler struct {
	layout booking.Layout
}

func NewSelectionHandler() *SelectionHandler {
	return &SelectionHandler{layout: booking.DefaultLayout()}
}

// Layout handles GET /v1/seats/layout.
func (h *SelectionHandler) Layout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.layout)
}

// Apply handles POST /v1/selection.  A refused toggle still answers 200, with
// the unchanged state and a notice.
func (h *SelectionHandler) Apply(c echo.Context) error {
	var req selectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validationMessage(err)})
	}

	state := req.State
	state.Sanitize()

	var notice string
	switch req.Action.Type {
	case ActionSelectTime:
		state.SelectTime(req.Action.Time)
	case ActionToggleSeat:
		notice = state.ToggleSeat(req.Action.Seat)
	}
	if state.Seats == nil {
		state.Seats = []string{}
	}
	return c.JSON(http.StatusOK, selectionResp{State: state, Notice: notice, Message: booking.NoticeMessage(notice)})
}
