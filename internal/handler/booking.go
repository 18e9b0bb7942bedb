package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ruralride/internal/fare"
	"ruralride/internal/service"
)

// BookingHandler handles the public booking routes.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// FaresResponse is the HTTP response for the rate table.
type FaresResponse struct {
	DistanceKm float64      `json:"distanceKm"`
	Fares      []fare.Quote `json:"fares"`
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil || raw == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid booking data",
			Errors:  []service.FieldError{{Field: "body", Message: "Expected a JSON object"}},
		})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	respondJSON(c, http.StatusCreated, booking)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	respondJSON(c, http.StatusOK, bookings)
}

// GetFares handles GET /api/fares
func (h *BookingHandler) GetFares(c *gin.Context) {
	respondJSON(c, http.StatusOK, FaresResponse{
		DistanceKm: fare.DistanceKm,
		Fares:      fare.Quotes(),
	})
}
