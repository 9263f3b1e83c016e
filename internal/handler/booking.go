package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/showtix/showtix/internal/middleware"
	"github.com/showtix/showtix/internal/repository"
	"github.com/showtix/showtix/internal/service"
)

// BookingHandler serves seat reservation and occupancy reads.  The
// create route assumes JWT authentication has already resolved the
// user id into the request context.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

// Create handles POST /api/booking/create.  The whole request either
// books every selected seat or books none; a conflict on any seat
// leaves the show untouched and reports the seats as unavailable.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	var body struct {
		ShowID        uint64   `json:"showId"`
		SelectedSeats []string `json:"selectedSeats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid show id"})
	}

	booking, err := h.Bookings.Create(c.Request().Context(), userID, body.ShowID, body.SelectedSeats)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Show not found"})
		case errors.Is(err, service.ErrSeatsUnavailable):
			// Not an HTTP failure: the client re-renders the seat map.
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Selected seats are not available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Failed to create booking"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// OccupiedSeats handles GET /api/booking/seats/:showId.  It returns the
// sorted seat labels currently taken on the show.
func (h *BookingHandler) OccupiedSeats(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("showId"), 10, 64)
	if err != nil || showID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid show id"})
	}
	seats, err := h.Bookings.OccupiedSeats(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"success":       false,
				"occupiedSeats": []string{},
				"message":       "Show not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success":       false,
			"occupiedSeats": []string{},
			"message":       "Failed to fetch occupied seats",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"occupiedSeats": seats,
		"message":       "Occupied seats fetched successfully",
	})
}
