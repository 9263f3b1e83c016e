package identity

// webhook.go defines the payloads the identity provider delivers when user
// accounts change. The webhook relay keeps local user shadow records in
// sync so bookings can be displayed with user details without calling the
// provider on every read.

import (
	"strings"

	"github.com/showtix/showtix/internal/model"
)

// Webhook event types delivered by the provider.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// WebhookEvent is the envelope of a provider webhook delivery.
type WebhookEvent struct {
	Type string      `json:"type"`
	Data WebhookUser `json:"data"`
}

// WebhookUser carries the account fields relayed on user events.  Only
// the id is present on deletions.
type WebhookUser struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// ToUser maps the webhook payload onto the local shadow record shape.
func (u WebhookUser) ToUser() model.User {
	email := ""
	if len(u.EmailAddresses) > 0 {
		email = u.EmailAddresses[0].EmailAddress
	}
	return model.User{
		ID:    u.ID,
		Name:  strings.TrimSpace(u.FirstName + " " + u.LastName),
		Email: email,
		Image: u.ImageURL,
	}
}
