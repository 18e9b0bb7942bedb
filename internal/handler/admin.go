package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ruralride/internal/service"
)

// AdminHandler handles the operator routes.
type AdminHandler struct {
	bookingService *service.BookingService
	receiptService *service.ReceiptService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookingService *service.BookingService, receiptService *service.ReceiptService) *AdminHandler {
	return &AdminHandler{
		bookingService: bookingService,
		receiptService: receiptService,
	}
}

// UpdateStatusRequest is the HTTP request body for changing a booking status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// GetBooking handles GET /api/admin/bookings/:id
func (h *AdminHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Booking not found"})
		return
	}

	respondJSON(c, http.StatusOK, booking)
}

// UpdateStatus handles PATCH /api/admin/bookings/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Booking not found"})
		return
	}

	respondJSON(c, http.StatusOK, booking)
}

// GetReceipt handles GET /api/admin/bookings/:id/receipt
func (h *AdminHandler) GetReceipt(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Message: "Booking not found"})
		return
	}

	pdf, filename, err := h.receiptService.RenderPDF(h.receiptService.GenerateReceipt(booking))
	if err != nil {
		respondError(c, err, "Failed to render receipt")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(pdf)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
