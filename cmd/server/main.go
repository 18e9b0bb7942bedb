package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"ruralride/internal/app"
	"ruralride/internal/config"
	"ruralride/internal/events"
	"ruralride/internal/handler"
	"ruralride/internal/middleware"
	internalRedis "ruralride/internal/redis"
	"ruralride/internal/repository"
	"ruralride/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	nrApp := app.NewNewRelic(cfg.NewRelic, log)

	storage, err := app.NewStorage(ctx, cfg, nrApp, log)
	if err != nil {
		log.WithError(err).WithField("driver", cfg.Storage.Driver).Fatal("failed to open storage")
	}
	defer closeStorage(storage, log)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = connectRedis(ctx, cfg.Redis, nrApp, storage, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to redis")
		}
		defer redisClient.Close()
		log.WithField("addr", cfg.Redis.Addr).Info("connected to Redis")
	}

	var notifier service.Notifier = service.NewLogNotifier(log)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer publisher.Close()
		notifier = publisher
	}

	server := wireServer(cfg, storage, redisClient, notifier, nrApp, log)

	// Start server in goroutine.
	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Server.Port, "storage": storage.Backend}).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(
	cfg *config.Config,
	storage *repository.Storage,
	redisClient *redis.Client,
	notifier service.Notifier,
	nrApp *newrelic.Application,
	log *logrus.Logger,
) *http.Server {
	var cache service.BookingCache
	var idempotency middleware.IdempotencyStore
	if redisClient != nil {
		cache = internalRedis.NewBookingCache(redisClient, cfg.Redis.CacheTTL)
		idempotency = internalRedis.NewIdempotencyStore(redisClient)
	}

	// Initialize services.
	bookingService := service.NewBookingService(storage.Bookings, cache, notifier, service.FarePolicy{
		Verify:    cfg.Fare.Verify,
		Tolerance: cfg.Fare.Tolerance,
	}, log)
	userService := service.NewUserService(storage.Users, log)
	receiptService := service.NewReceiptService()

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		BookingHandler:   handler.NewBookingHandler(bookingService),
		AdminHandler:     handler.NewAdminHandler(bookingService, receiptService),
		HealthHandler:    handler.NewHealthHandler(storage.Backend),
		Authenticator:    userService,
		AdminEnabled:     cfg.Admin.RoutesEnabled,
		IdempotencyStore: idempotency,
		NewRelicApp:      nrApp,
		Backend:          storage.Backend,
		StaticDir:        cfg.Server.StaticDir,
		Logger:           log,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// connectRedis opens the Redis client and closes storage when that fails.
// The caller exits through log.Fatal, which skips deferred calls.
func connectRedis(
	ctx context.Context,
	cfg config.RedisConfig,
	nrApp *newrelic.Application,
	storage *repository.Storage,
	log logrus.FieldLogger,
) (*redis.Client, error) {
	client, err := app.NewRedisClient(ctx, cfg, nrApp)
	if err != nil {
		closeStorage(storage, log)
		return nil, err
	}
	return client, nil
}

func closeStorage(storage *repository.Storage, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := storage.Close(ctx); err != nil {
		log.WithError(err).Warn("failed to close storage")
	}
}
