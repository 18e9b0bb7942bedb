package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
	"ruralride/internal/repository/memory"
	"ruralride/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingBookings fails every call the way an unreachable store would.
type failingBookings struct {
	repository.BookingRepository
}

func (failingBookings) Create(ctx context.Context, nb *domain.NewBooking) (*domain.Booking, error) {
	return nil, errors.New("connection refused: db-internal:5432")
}

func (failingBookings) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	return nil, errors.New("connection refused: db-internal:5432")
}

func newTestRouter(repo repository.BookingRepository) *gin.Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)

	bookingService := service.NewBookingService(repo, nil, nil, service.FarePolicy{}, log)
	bookings := NewBookingHandler(bookingService)
	admin := NewAdminHandler(bookingService, service.NewReceiptService())

	r := gin.New()
	r.GET("/health", NewHealthHandler("memory").Health)
	r.POST("/api/bookings", bookings.CreateBooking)
	r.GET("/api/bookings", bookings.ListBookings)
	r.GET("/api/fares", bookings.GetFares)
	r.GET("/api/admin/bookings/:id", admin.GetBooking)
	r.PATCH("/api/admin/bookings/:id/status", admin.UpdateStatus)
	r.GET("/api/admin/bookings/:id/receipt", admin.GetReceipt)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validBody = `{
	"pickupLocation": "Village Square",
	"dropLocation": "District Hospital",
	"vehicleType": "car",
	"dateTime": "2030-05-01T09:30",
	"paymentMethod": "upi",
	"estimatedFare": "120",
	"customerName": "Asha Devi",
	"customerPhone": "9876543210"
}`

func TestCreateBooking_Created(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	w := do(r, http.MethodPost, "/api/bookings", validBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, "120", got["estimatedFare"])
	assert.Equal(t, "2030-05-01T09:30:00Z", got["dateTime"])
	assert.NotEmpty(t, got["createdAt"])
}

func TestCreateBooking_ValidationFailure(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	body := strings.Replace(validBody, `"9876543210"`, `"123"`, 1)
	w := do(r, http.MethodPost, "/api/bookings", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"message": "Invalid booking data",
		"errors": [{"field": "customerPhone", "message": "Phone number must be at least 10 digits"}]
	}`, w.Body.String())

	list := do(r, http.MethodGet, "/api/bookings", "")
	assert.JSONEq(t, `[]`, list.Body.String())
}

func TestCreateBooking_NotAnObject(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	for _, body := range []string{`[1,2]`, `"text"`, `not json`, `null`} {
		w := do(r, http.MethodPost, "/api/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCreateBooking_StorageFailureHidesCause(t *testing.T) {
	r := newTestRouter(failingBookings{})

	w := do(r, http.MethodPost, "/api/bookings", validBody)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to create booking"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "db-internal")
}

func TestListBookings(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	w := do(r, http.MethodGet, "/api/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	do(r, http.MethodPost, "/api/bookings", validBody)
	do(r, http.MethodPost, "/api/bookings", validBody)

	w = do(r, http.MethodGet, "/api/bookings", "")
	var got []domain.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestListBookings_StorageFailure(t *testing.T) {
	r := newTestRouter(failingBookings{})

	w := do(r, http.MethodGet, "/api/bookings", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Failed to fetch bookings"}`, w.Body.String())
}

func TestGetFares(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	w := do(r, http.MethodGet, "/api/fares", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got FaresResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 10.0, got.DistanceKm)
	require.Len(t, got.Fares, 4)
	assert.Equal(t, domain.VehicleTypeBike, got.Fares[0].VehicleType)
	assert.Equal(t, 50.0, got.Fares[0].Estimate)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())
}

func TestAdminRoutes(t *testing.T) {
	r := newTestRouter(memory.NewBookingRepository())

	created := do(r, http.MethodPost, "/api/bookings", validBody)
	var booking domain.Booking
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &booking))

	t.Run("get", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/admin/bookings/"+booking.ID, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), booking.ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/admin/bookings/missing", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update status", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", `{"status":"confirmed"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Booking
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
		assert.Equal(t, booking.CustomerName, got.CustomerName)
	})

	t.Run("invalid status", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/admin/bookings/"+booking.ID+"/status", `{"status":"archived"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Invalid booking status"}`, w.Body.String())
	})

	t.Run("update unknown", func(t *testing.T) {
		w := do(r, http.MethodPatch, "/api/admin/bookings/missing/status", `{"status":"confirmed"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("receipt", func(t *testing.T) {
		w := do(r, http.MethodGet, "/api/admin/bookings/"+booking.ID+"/receipt", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt-RR-")
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	})
}
