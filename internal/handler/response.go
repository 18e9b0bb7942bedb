package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ruralride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string               `json:"message"`
	Errors  []service.FieldError `json:"errors,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Storage and unknown failures carry only the fallback message.
func respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid booking data", Errors: verr.Fields})
		return
	}

	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		c.JSON(code, ErrorResponse{Message: fallback})
		return
	}
	c.JSON(code, ErrorResponse{Message: messageFor(err)})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidBookingID):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidStatus):
		return "Invalid booking status"
	case errors.Is(err, service.ErrInvalidBookingID):
		return "Invalid booking id"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Authentication required"
	default:
		return err.Error()
	}
}
