// Package tmdb implements the metadata fetcher collaborating with the
// TMDB HTTP API. It is only consulted when a movie is referenced for the
// first time (or for the admin now-playing picker); all later reads are
// served from the local catalog.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/showtix/showtix/internal/model"
)

// ErrUpstream is returned when TMDB is unreachable or answers with a
// non-success status. Callers surface it as an upstream fetch failure;
// nothing is persisted when it occurs.
var ErrUpstream = errors.New("metadata provider request failed")

// Client talks to the TMDB v3 API with bearer authentication.  All calls
// carry a bounded timeout via the embedded HTTP client.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient constructs a Client for the given base URL (no trailing
// slash) and API bearer token.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// movieDetails mirrors the fields of the TMDB movie detail payload that
// feed the local Movie schema.
type movieDetails struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	Tagline          string  `json:"tagline"`
	VoteAverage      float64 `json:"vote_average"`
	Runtime          uint32  `json:"runtime"`
	Adult            bool    `json:"adult"`
	Popularity       float64 `json:"popularity"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

// movieCredits mirrors the TMDB credits payload.
type movieCredits struct {
	Cast []struct {
		Name string `json:"name"`
	} `json:"cast"`
}

// NowPlayingMovie is one entry of the TMDB now-playing listing, passed
// through to the admin show-creation screen.
type NowPlayingMovie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

// FetchMovie retrieves detail and credit data for one movie id, issuing
// both requests in parallel, and maps the provider payloads into the
// local Movie schema: genre objects become names, cast objects become
// names, and a missing tagline becomes the empty string.
func (c *Client) FetchMovie(ctx context.Context, id string) (*model.Movie, error) {
	var det movieDetails
	var cred movieCredits
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, "/movie/"+id, &det)
	})
	g.Go(func() error {
		return c.get(gctx, "/movie/"+id+"/credits", &cred)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	genres := make([]string, 0, len(det.Genres))
	for _, gn := range det.Genres {
		genres = append(genres, gn.Name)
	}
	casts := make([]string, 0, len(cred.Cast))
	for _, cm := range cred.Cast {
		casts = append(casts, cm.Name)
	}

	return &model.Movie{
		ID:               id,
		Title:            det.Title,
		Overview:         det.Overview,
		PosterPath:       det.PosterPath,
		BackdropPath:     det.BackdropPath,
		ReleaseDate:      det.ReleaseDate,
		OriginalLanguage: det.OriginalLanguage,
		Tagline:          det.Tagline,
		Genres:           genres,
		Casts:            casts,
		VoteAverage:      det.VoteAverage,
		Runtime:          det.Runtime,
		Adult:            det.Adult,
		Popularity:       det.Popularity,
		Status:           statusForRelease(det.ReleaseDate, time.Now().UTC()),
	}, nil
}

// NowPlaying returns TMDB's current now-playing listing.
func (c *Client) NowPlaying(ctx context.Context) ([]NowPlayingMovie, error) {
	var out struct {
		Results []NowPlayingMovie `json:"results"`
	}
	if err := c.get(ctx, "/movie/now_playing", &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// get issues an authenticated GET and decodes the JSON body into dst.
// Transport failures and non-2xx statuses both map to ErrUpstream.
func (c *Client) get(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s returned %d", ErrUpstream, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}

// statusForRelease classifies a movie as now playing or upcoming from
// its release date. Unparseable dates default to upcoming.
func statusForRelease(releaseDate string, now time.Time) string {
	t, err := time.Parse("2006-01-02", releaseDate)
	if err != nil {
		return model.MovieStatusUpcoming
	}
	if t.After(now) {
		return model.MovieStatusUpcoming
	}
	return model.MovieStatusNowPlaying
}
