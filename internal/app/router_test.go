package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruralride/internal/handler"
	"ruralride/internal/repository/memory"
	"ruralride/internal/service"
)

func newTestRouter(t *testing.T, adminEnabled bool, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	storage := memory.NewStorage()
	bookingService := service.NewBookingService(storage.Bookings, nil, nil, service.FarePolicy{}, log)
	userService := service.NewUserService(storage.Users, log)
	_, err := userService.Register(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	return NewRouter(RouterDeps{
		BookingHandler: handler.NewBookingHandler(bookingService),
		AdminHandler:   handler.NewAdminHandler(bookingService, service.NewReceiptService()),
		HealthHandler:  handler.NewHealthHandler(storage.Backend),
		Authenticator:  userService,
		AdminEnabled:   adminEnabled,
		Backend:        storage.Backend,
		StaticDir:      staticDir,
		Logger:         log,
	})
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_UnknownAPIPath(t *testing.T) {
	r := newTestRouter(t, false, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"API endpoint not found"}`, w.Body.String())
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := newTestRouter(t, false, "")

	w := serve(r, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_AdminRoutesDisabled(t *testing.T) {
	r := newTestRouter(t, false, "")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/x", nil)
	req.SetBasicAuth("admin", "admin123")
	w := serve(r, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_AdminRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t, true, "")

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/admin/bookings/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/x", nil)
	req.SetBasicAuth("admin", "admin123")
	w = serve(r, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Booking not found"}`, w.Body.String())
}

func TestRouter_BookingRoundTrip(t *testing.T) {
	r := newTestRouter(t, false, "")

	body := `{"pickupLocation":"A","dropLocation":"B","vehicleType":"bike","dateTime":"2030-01-01T10:00",
		"paymentMethod":"cash","estimatedFare":"50","customerName":"Om","customerPhone":"9999999999"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"customerName":"Om"`)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.JSONEq(t, `{"status":"ok","storage":"memory"}`, w.Body.String())
}

func TestRouter_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	r := newTestRouter(t, false, dir)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "console.log(1)", w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/book/confirm", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
