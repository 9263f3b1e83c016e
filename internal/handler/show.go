// Package handler exposes HTTP handlers for the public catalog, the
// booking flow and the admin back-office. Handlers bind and validate
// request bodies, delegate to services, and translate service errors
// into `{success, message}` envelopes; they never touch the database
// directly except through repositories injected for plain reads.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/showtix/showtix/internal/repository"
	"github.com/showtix/showtix/internal/service"
	"github.com/showtix/showtix/internal/tmdb"
)

// NowPlayingLister serves the admin movie picker with the provider's
// current now-playing listing.
type NowPlayingLister interface {
	NowPlaying(ctx context.Context) ([]tmdb.NowPlayingMovie, error)
}

// ShowHandler serves show creation and the public catalog reads.
type ShowHandler struct {
	Shows *service.ShowService
	TMDB  NowPlayingLister
}

// NewShowHandler constructs a ShowHandler.
func NewShowHandler(shows *service.ShowService, nowPlaying NowPlayingLister) *ShowHandler {
	if shows == nil {
		panic("nil service passed to NewShowHandler")
	}
	return &ShowHandler{Shows: shows, TMDB: nowPlaying}
}

// NowPlaying handles GET /api/show/now-playing.  It passes the
// provider's now-playing listing through to the admin screen.
func (h *ShowHandler) NowPlaying(c echo.Context) error {
	movies, err := h.TMDB.NowPlaying(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"success": false,
			"movies":  []tmdb.NowPlayingMovie{},
			"message": "Failed to fetch movies",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"movies":  movies,
		"message": "Movies fetched successfully",
	})
}

// AddShow handles POST /api/show/add.  The body carries a movie id, a
// list of {date, time[]} entries and a price; one show is created per
// (date, time) pair.
func (h *ShowHandler) AddShow(c echo.Context) error {
	var in service.AddShowsInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Invalid input data"})
	}
	if err := h.Shows.AddShows(c.Request().Context(), in); err != nil {
		switch {
		case service.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrUpstreamFetch):
			return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "Failed to fetch movie data"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to add show"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Shows added successfully"})
}

// GetShows handles GET /api/show/all.  It returns the distinct movies
// with at least one upcoming show, ordered by earliest showtime.
func (h *ShowHandler) GetShows(c echo.Context) error {
	movies, err := h.Shows.UpcomingMovies(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"shows":   movies,
		"message": "Shows fetched successfully",
	})
}

// GetShow handles GET /api/show/:movieId.  It returns the movie and its
// upcoming showtimes grouped by date.
func (h *ShowHandler) GetShow(c echo.Context) error {
	movieID := c.Param("movieId")
	if movieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid movie id"})
	}
	movie, dateTime, err := h.Shows.MovieShowtimes(c.Request().Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch show"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"movie":    movie,
		"dateTime": dateTime,
		"message":  "Show fetched successfully",
	})
}
