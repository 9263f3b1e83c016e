package model

// User is a shadow record of an account owned by the external identity
// provider.  Rows are created, updated and deleted by the provider's
// webhooks; this service never authenticates users itself.  Favorite
// movies are stored in provider metadata, not here.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}
