package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtix/showtix/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchMovieMapsDetailAndCredits(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/movie/100":
			w.Write([]byte(`{
				"id": 100,
				"title": "Arrival",
				"overview": "Aliens land.",
				"poster_path": "/p.jpg",
				"backdrop_path": "/b.jpg",
				"release_date": "2016-11-11",
				"original_language": "en",
				"tagline": "Why are they here?",
				"vote_average": 7.9,
				"runtime": 116,
				"adult": false,
				"popularity": 41.5,
				"genres": [{"id": 18, "name": "Drama"}, {"id": 878, "name": "Science Fiction"}]
			}`))
		case "/movie/100/credits":
			w.Write([]byte(`{"cast": [{"name": "Amy Adams"}, {"name": "Jeremy Renner"}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	c := NewClient(srv.URL, "test-token")
	m, err := c.FetchMovie(context.Background(), "100")
	require.NoError(t, err)

	assert.Equal(t, "100", m.ID)
	assert.Equal(t, "Arrival", m.Title)
	assert.Equal(t, "Why are they here?", m.Tagline)
	assert.Equal(t, []string{"Drama", "Science Fiction"}, m.Genres)
	assert.Equal(t, []string{"Amy Adams", "Jeremy Renner"}, m.Casts)
	assert.Equal(t, uint32(116), m.Runtime)
	assert.Equal(t, model.MovieStatusNowPlaying, m.Status)
}

func TestFetchMovieUpstreamError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	c := NewClient(srv.URL, "test-token")
	_, err := c.FetchMovie(context.Background(), "100")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNowPlaying(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/now_playing", r.URL.Path)
		w.Write([]byte(`{"results": [
			{"id": 100, "title": "Arrival", "release_date": "2016-11-11", "vote_average": 7.9},
			{"id": 200, "title": "Dune", "release_date": "2021-10-22", "vote_average": 8.0}
		]}`))
	})

	c := NewClient(srv.URL, "test-token")
	movies, err := c.NowPlaying(context.Background())
	require.NoError(t, err)
	require.Len(t, movies, 2)
	assert.Equal(t, int64(100), movies[0].ID)
	assert.Equal(t, "Dune", movies[1].Title)
}

func TestStatusForRelease(t *testing.T) {
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, model.MovieStatusNowPlaying, statusForRelease("2016-11-11", now))
	assert.Equal(t, model.MovieStatusUpcoming, statusForRelease("2026-01-01", now))
	assert.Equal(t, model.MovieStatusUpcoming, statusForRelease("soon", now))
}
