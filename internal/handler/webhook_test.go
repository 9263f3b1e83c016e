package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/utils"
)

type fakeUserSyncer struct {
	upserted []model.User
	deleted  []string
}

func (f *fakeUserSyncer) Upsert(_ context.Context, u *model.User) error {
	f.upserted = append(f.upserted, *u)
	return nil
}

func (f *fakeUserSyncer) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func deliverWebhook(t *testing.T, h *WebhookHandler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/identity", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.Handle(e.NewContext(req, rec)))
	return rec
}

func TestWebhookUserCreated(t *testing.T) {
	users := &fakeUserSyncer{}
	h := NewWebhookHandler(users, "secret", zerolog.Nop())

	body := `{"type":"user.created","data":{"id":"user_1","first_name":"Ada","last_name":"Lovelace","image_url":"https://img/a.png","email_addresses":[{"email_address":"ada@example.com"}]}}`
	rec := deliverWebhook(t, h, body, utils.SignPayload("secret", []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.upserted, 1)
	assert.Equal(t, "user_1", users.upserted[0].ID)
	assert.Equal(t, "Ada Lovelace", users.upserted[0].Name)
	assert.Equal(t, "ada@example.com", users.upserted[0].Email)
}

func TestWebhookUserDeleted(t *testing.T) {
	users := &fakeUserSyncer{}
	h := NewWebhookHandler(users, "secret", zerolog.Nop())

	body := `{"type":"user.deleted","data":{"id":"user_1"}}`
	rec := deliverWebhook(t, h, body, utils.SignPayload("secret", []byte(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user_1"}, users.deleted)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	users := &fakeUserSyncer{}
	h := NewWebhookHandler(users, "secret", zerolog.Nop())

	body := `{"type":"user.created","data":{"id":"user_1"}}`
	rec := deliverWebhook(t, h, body, "deadbeef")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, users.upserted)
}

func TestWebhookIgnoresUnknownEventType(t *testing.T) {
	users := &fakeUserSyncer{}
	h := NewWebhookHandler(users, "", zerolog.Nop())

	rec := deliverWebhook(t, h, `{"type":"session.created","data":{"id":"user_1"}}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, users.upserted)
	assert.Empty(t, users.deleted)
}
