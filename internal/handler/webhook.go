package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/satvik-sharma-05/movieBooking/internal/metrics"
	"github.com/satvik-sharma-05/movieBooking/internal/model"
	"github.com/satvik-sharma-05/movieBooking/internal/usersync"
	"github.com/satvik-sharma-05/movieBooking/internal/webhook"
)

const maxWebhookBody = 1 << 20

// SyncService runs a user event through the sync pipeline.
type SyncService interface {
	Dispatch(ctx context.Context, ev model.UserEvent) usersync.Result
}

// EventPublisher hands a verified event to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, msgID string, ev model.UserEvent) error
}

// SignatureVerifier checks a delivery's signature headers.
type SignatureVerifier interface {
	Verify(body []byte, h http.Header) error
}

// WebhookHandler receives identity-provider user events.  With a Publisher
// set, events are queued for the consumer; otherwise they are processed
// before the response is written.
type WebhookHandler struct {
	Sync      SyncService
	Publisher EventPublisher
	Verifier  SignatureVerifier
	Log       *slog.Logger
}

func NewWebhookHandler(sync SyncService, pub EventPublisher, v SignatureVerifier, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{Sync: sync, Publisher: pub, Verifier: v, Log: logger.With("component", "webhook")}
}

// Receive handles POST /api/webhooks/clerk and POST /api/inngest.
//
//	200 {success:true}                accepted (processed, skipped or queued)
//	200 {success:false, error}        rejected for good, the sender must not retry
//	400 {error}                       body is not a usable event
//	401 {error}                       signature check failed
//	500 {error}                       downstream failure, the sender should retry
func (h *WebhookHandler) Receive(c echo.Context) error {
	route := c.Path()
	status, body := h.receive(c)
	metrics.WebhookRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	return c.JSON(status, body)
}

func (h *WebhookHandler) receive(c echo.Context) (int, any) {
	req := c.Request()
	raw, err := io.ReadAll(io.LimitReader(req.Body, maxWebhookBody+1))
	if err != nil {
		return http.StatusBadRequest, echo.Map{"error": "unreadable body"}
	}
	if len(raw) > maxWebhookBody {
		return http.StatusRequestEntityTooLarge, echo.Map{"error": "body too large"}
	}

	if err := h.Verifier.Verify(raw, req.Header); err != nil {
		h.Log.Warn("webhook: signature rejected", "remote_ip", c.RealIP(), "error", err)
		return http.StatusUnauthorized, echo.Map{"error": "invalid signature"}
	}

	var ev model.UserEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return http.StatusBadRequest, echo.Map{"error": "invalid JSON"}
	}
	ev.Normalize()
	switch {
	case ev.Type == "":
		return http.StatusBadRequest, echo.Map{"error": "missing event type"}
	case ev.Data.ID == "":
		return http.StatusBadRequest, echo.Map{"error": "missing data.id"}
	}

	ctx := req.Context()
	if h.Publisher != nil {
		msgID := req.Header.Get(webhook.HeaderID)
		if err := h.Publisher.Publish(ctx, msgID, ev); err != nil {
			h.Log.Error("webhook: enqueue failed", "type", ev.Type, "external_id", ev.Data.ID, "error", err)
			return http.StatusInternalServerError, echo.Map{"error": "failed to enqueue event"}
		}
		h.Log.Info("webhook: event queued", "type", ev.Type, "external_id", ev.Data.ID, "message_id", msgID)
		return http.StatusOK, usersync.Result{Success: true}
	}

	res := h.Sync.Dispatch(ctx, ev)
	if !res.Success && !res.Terminal {
		return http.StatusInternalServerError, echo.Map{"error": res.Error}
	}
	return http.StatusOK, res
}
