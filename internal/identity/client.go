// Package identity integrates with the external identity provider. The
// provider owns user accounts and their favorite-movie metadata; this
// service only receives a resolved user id from verified tokens and
// reads or writes metadata through the provider's backend API.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrProvider is returned when the identity provider is unreachable or
// answers with a non-success status.
var ErrProvider = errors.New("identity provider request failed")

// FavoritesStore is the surface the user handlers need: look up and
// replace a user's favorite-movie id list.  The HTTP Client implements
// it against the provider's backend API; tests substitute a fake.
type FavoritesStore interface {
	FavoriteMovies(ctx context.Context, userID string) ([]string, error)
	SetFavoriteMovies(ctx context.Context, userID string, movieIDs []string) error
}

// Client calls the identity provider's backend API with a secret key.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient constructs a Client for the given base URL (no trailing
// slash) and backend API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// userMetadata is the slice of provider user metadata this service uses.
type userMetadata struct {
	FavoriteMovies []string `json:"favorite_movies"`
}

// FavoriteMovies returns the user's favorite movie ids from provider
// metadata.  A user without the metadata key yields an empty list.
func (c *Client) FavoriteMovies(ctx context.Context, userID string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+userID+"/metadata", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}
	var meta userMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProvider, err)
	}
	if meta.FavoriteMovies == nil {
		return []string{}, nil
	}
	return meta.FavoriteMovies, nil
}

// SetFavoriteMovies replaces the user's favorite movie ids in provider
// metadata.
func (c *Client) SetFavoriteMovies(ctx context.Context, userID string, movieIDs []string) error {
	body, err := json.Marshal(userMetadata{FavoriteMovies: movieIDs})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/users/"+userID+"/metadata", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}
	return nil
}
