package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/showtix/showtix/internal/model"
	"github.com/showtix/showtix/internal/repository"
)

// AdminHandler serves the back-office reads.  All routes are behind the
// admin role middleware; these are plain repository reads so the
// handler takes repositories directly.
type AdminHandler struct {
	Shows    *repository.ShowRepo
	Seats    *repository.SeatRepo
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
}

// NewAdminHandler constructs an AdminHandler with the provided
// repositories.  All dependencies must be non-nil.
func NewAdminHandler(shows *repository.ShowRepo, seats *repository.SeatRepo, bookings *repository.BookingRepo, users *repository.UserRepo) *AdminHandler {
	if shows == nil || seats == nil || bookings == nil || users == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Shows: shows, Seats: seats, Bookings: bookings, Users: users}
}

// adminShow decorates a show with its current occupancy count for the
// listing screen.
type adminShow struct {
	model.Show
	OccupiedSeats int `json:"occupiedSeats"`
}

// IsAdmin handles GET /api/admin/is-admin.  Reaching it at all means
// the role middleware accepted the caller.
func (h *AdminHandler) IsAdmin(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "isAdmin": true})
}

// AllShows handles GET /api/admin/all-shows: every upcoming show with
// its movie and occupancy count.
func (h *AdminHandler) AllShows(c echo.Context) error {
	ctx := c.Request().Context()
	shows, err := h.Shows.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch shows"})
	}
	ids := make([]uint64, 0, len(shows))
	for _, s := range shows {
		ids = append(ids, s.ID)
	}
	counts, err := h.Seats.OccupiedCounts(ctx, ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch shows"})
	}
	out := make([]adminShow, 0, len(shows))
	for _, s := range shows {
		out = append(out, adminShow{Show: s, OccupiedSeats: counts[s.ID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "shows": out})
}

// AllBookings handles GET /api/admin/all-bookings, newest first.
func (h *AdminHandler) AllBookings(c echo.Context) error {
	bookings, err := h.Bookings.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookings": bookings})
}

// Dashboard handles GET /api/admin/dashboard: booking and revenue
// totals, the upcoming shows, and the user count.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	totalBookings, revenue, err := h.Bookings.Stats(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch dashboard data"})
	}
	activeShows, err := h.Shows.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch dashboard data"})
	}
	totalUser, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to fetch dashboard data"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"dashboardData": echo.Map{
			"totalBookings": totalBookings,
			"totalRevenue":  revenue,
			"activeShows":   activeShows,
			"totalUser":     totalUser,
		},
	})
}
