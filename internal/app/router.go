package app

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"ruralride/internal/handler"
	"ruralride/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	BookingHandler *handler.BookingHandler
	AdminHandler   *handler.AdminHandler
	HealthHandler  *handler.HealthHandler

	// Authenticator guards the operator routes; they are mounted only when AdminEnabled is set.
	Authenticator middleware.Authenticator
	AdminEnabled  bool

	// IdempotencyStore enables Idempotency-Key replay when non-nil.
	IdempotencyStore middleware.IdempotencyStore

	NewRelicApp *newrelic.Application
	Backend     string
	StaticDir   string
	Logger      logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
		router.Use(middleware.TransactionAttributes(deps.Backend))
	}

	if deps.IdempotencyStore != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.IdempotencyStore, deps.Logger))
	}

	// Health check.
	router.GET("/health", deps.HealthHandler.Health)

	api := router.Group("/api")
	{
		bookings := api.Group("/bookings")
		{
			bookings.POST("", deps.BookingHandler.CreateBooking)
			bookings.GET("", deps.BookingHandler.ListBookings)
		}

		api.GET("/fares", deps.BookingHandler.GetFares)

		if deps.AdminEnabled && deps.AdminHandler != nil && deps.Authenticator != nil {
			admin := api.Group("/admin", middleware.BasicAuth(deps.Authenticator))
			{
				admin.GET("/bookings/:id", deps.AdminHandler.GetBooking)
				admin.PATCH("/bookings/:id/status", deps.AdminHandler.UpdateStatus)
				admin.GET("/bookings/:id/receipt", deps.AdminHandler.GetReceipt)
			}
		}
	}

	router.NoRoute(fallback(deps.StaticDir))

	return router
}

// fallback answers unknown /api paths with a JSON 404 and serves the client app for everything else.
func fallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			c.JSON(http.StatusNotFound, handler.ErrorResponse{Message: "API endpoint not found"})
			return
		}

		if staticDir == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, handler.ErrorResponse{Message: "Not found"})
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	}
}
