package identity

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteMovies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/user_1/metadata", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"favorite_movies":["100","200"]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	ids, err := c.FavoriteMovies(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "200"}, ids)
}

func TestFavoriteMoviesMissingKeyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	ids, err := c.FavoriteMovies(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, ids)
}

func TestSetFavoriteMovies(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/user_1/metadata", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var meta struct {
			FavoriteMovies []string `json:"favorite_movies"`
		}
		require.NoError(t, json.Unmarshal(body, &meta))
		got = meta.FavoriteMovies
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	require.NoError(t, c.SetFavoriteMovies(context.Background(), "user_1", []string{"100"}))
	assert.Equal(t, []string{"100"}, got)
}

func TestProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	_, err := c.FavoriteMovies(context.Background(), "user_1")
	assert.ErrorIs(t, err, ErrProvider)

	err = c.SetFavoriteMovies(context.Background(), "user_1", nil)
	assert.ErrorIs(t, err, ErrProvider)
}

func TestWebhookUserMapping(t *testing.T) {
	u := WebhookUser{
		ID:        "user_1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		ImageURL:  "https://img/a.png",
		EmailAddresses: []struct {
			EmailAddress string `json:"email_address"`
		}{{EmailAddress: "ada@example.com"}},
	}
	m := u.ToUser()
	assert.Equal(t, "user_1", m.ID)
	assert.Equal(t, "Ada Lovelace", m.Name)
	assert.Equal(t, "ada@example.com", m.Email)

	// Deletions carry only the id.
	m = WebhookUser{ID: "user_2"}.ToUser()
	assert.Equal(t, "user_2", m.ID)
	assert.Equal(t, "", m.Name)
	assert.Equal(t, "", m.Email)
}
