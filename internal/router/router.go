package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/showtix/showtix/internal/handler"
	"github.com/showtix/showtix/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterShows wires the public catalogue reads and the admin-only
// show management endpoints under /api/show.  The optional cache
// middleware is applied to the read endpoints only; mutations must
// always hit the database.
func RegisterShows(e *echo.Echo, h *handler.ShowHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api/show")

	reads := []echo.MiddlewareFunc{}
	if cache != nil {
		reads = append(reads, cache)
	}
	// Static paths are registered alongside the :movieId param route;
	// Echo matches static segments first so /all never shadows a movie id.
	g.GET("/all", h.GetShows, reads...)
	g.GET("/:movieId", h.GetShow, reads...)

	admin := g.Group("", middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
	admin.POST("/add", h.AddShow)
	admin.GET("/now-playing", h.NowPlaying)
}

// RegisterBookings wires seat queries and booking creation under
// /api/booking.  Occupied-seat reads are public so the seat picker can
// render before login; creation requires a valid session.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/booking")
	g.GET("/seats/:showId", h.OccupiedSeats)

	auth := g.Group("", middleware.JWTAuth(jwtSecret))
	auth.POST("/create", h.Create)
}

// RegisterUsers wires the authenticated per-user endpoints under
// /api/user: booking history and the favorites list held at the
// identity provider.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/api/user", middleware.JWTAuth(jwtSecret))
	g.GET("/bookings", h.GetBookings)
	g.POST("/update-favorite", h.UpdateFavorite)
	g.GET("/favorites", h.GetFavorites)
}

// RegisterAdmin wires the back-office reads under /api/admin.  Every
// route requires a valid token carrying the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/api/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
	g.GET("/is-admin", h.IsAdmin)
	g.GET("/all-shows", h.AllShows)
	g.GET("/all-bookings", h.AllBookings)
	g.GET("/dashboard", h.Dashboard)
}

// RegisterWebhooks wires the identity-provider relay.  The route is
// unauthenticated; the handler verifies the HMAC signature itself.
func RegisterWebhooks(e *echo.Echo, h *handler.WebhookHandler) {
	e.POST("/api/webhooks/identity", h.Handle)
}
