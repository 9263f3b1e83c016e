package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/showtix/showtix/internal/identity"
	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/utils"
)

// signatureHeader carries the hex HMAC-SHA256 of the raw request body.
const signatureHeader = "X-Webhook-Signature"

// UserSyncer is the user shadow-table surface the webhook relay writes
// through.
type UserSyncer interface {
	Upsert(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
}

// WebhookHandler mirrors identity-provider user events into the local
// users table so bookings can be joined against a name and email
// without calling the provider on every read.
type WebhookHandler struct {
	Users  UserSyncer
	Secret string
	Log    zerolog.Logger
}

// NewWebhookHandler constructs a WebhookHandler. An empty secret
// disables signature verification, which is only acceptable in local
// development.
func NewWebhookHandler(users UserSyncer, secret string, log zerolog.Logger) *WebhookHandler {
	if users == nil {
		panic("nil user repository passed to NewWebhookHandler")
	}
	return &WebhookHandler{Users: users, Secret: secret, Log: log}
}

// Handle processes POST /api/webhooks/identity.
func (h *WebhookHandler) Handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "unreadable body"})
	}

	if h.Secret != "" {
		sig := c.Request().Header.Get(signatureHeader)
		if !utils.VerifySignature(h.Secret, body, sig) {
			h.Log.Warn().Msg("webhook signature mismatch")
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "invalid signature"})
		}
	}

	var ev identity.WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid payload"})
	}
	if ev.Data.ID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "missing user id"})
	}

	ctx := c.Request().Context()
	switch ev.Type {
	case identity.EventUserCreated, identity.EventUserUpdated:
		u := ev.Data.ToUser()
		if err := h.Users.Upsert(ctx, &u); err != nil {
			h.Log.Error().Err(err).Str("user_id", ev.Data.ID).Msg("webhook user upsert failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to store user"})
		}
	case identity.EventUserDeleted:
		if err := h.Users.Delete(ctx, ev.Data.ID); err != nil {
			h.Log.Error().Err(err).Str("user_id", ev.Data.ID).Msg("webhook user delete failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to delete user"})
		}
	default:
		// Unknown event types are acknowledged so the provider does
		// not keep retrying them.
		h.Log.Debug().Str("type", ev.Type).Msg("ignoring webhook event")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
