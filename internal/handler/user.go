package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/showtix/showtix/internal/identity"
	"github.com/showtix/showtix/internal/middleware"
	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/service"
)

// MovieLister loads catalog movies by their provider ids.
type MovieLister interface {
	ListByIDs(ctx context.Context, ids []string) ([]model.Movie, error)
}

// UserHandler serves the authenticated user's bookings and favorites.
// Favorites live in the identity provider's user metadata; this service
// only resolves the stored movie ids against the local catalog.
type UserHandler struct {
	Bookings  *service.BookingService
	Movies    MovieLister
	Favorites identity.FavoritesStore
}

// NewUserHandler constructs a UserHandler.  favorites may be nil when
// no identity provider API is configured; the favorite routes then
// answer 503.
func NewUserHandler(bookings *service.BookingService, movies MovieLister, favorites identity.FavoritesStore) *UserHandler {
	if bookings == nil || movies == nil {
		panic("nil dependency passed to NewUserHandler")
	}
	return &UserHandler{Bookings: bookings, Movies: movies, Favorites: favorites}
}

// GetBookings handles GET /api/user/bookings, newest first.
func (h *UserHandler) GetBookings(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	bookings, err := h.Bookings.UserBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

// UpdateFavorite handles POST /api/user/update-favorite.  It toggles
// the movie id in the user's provider-side favorite list: absent ids
// are added and present ids removed.
func (h *UserHandler) UpdateFavorite(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	if h.Favorites == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"success": false, "message": "favorites are not configured"})
	}
	var body struct {
		MovieID string `json:"movieId"`
	}
	if err := c.Bind(&body); err != nil || body.MovieID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "movieId is required"})
	}

	ctx := c.Request().Context()
	favorites, err := h.Favorites.FavoriteMovies(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "Failed to update favorite movie"})
	}
	updated := make([]string, 0, len(favorites)+1)
	found := false
	for _, id := range favorites {
		if id == body.MovieID {
			found = true
			continue
		}
		updated = append(updated, id)
	}
	if !found {
		updated = append(updated, body.MovieID)
	}
	if err := h.Favorites.SetFavoriteMovies(ctx, userID, updated); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "Failed to update favorite movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Favorite movie updated successfully"})
}

// GetFavorites handles GET /api/user/favorites.  Favorite ids come from
// provider metadata and are resolved against the local movie catalog;
// ids the catalog has never seen are skipped.
func (h *UserHandler) GetFavorites(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	if h.Favorites == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"success": false, "message": "favorites are not configured"})
	}
	ctx := c.Request().Context()
	ids, err := h.Favorites.FavoriteMovies(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "Failed to fetch favorites"})
	}
	movies, err := h.Movies.ListByIDs(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch favorites"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "movies": movies})
}
