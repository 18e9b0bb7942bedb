// seed resets the configured store and loads sample operator accounts and bookings.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"ruralride/internal/app"
	"ruralride/internal/config"
	"ruralride/internal/domain"
	"ruralride/internal/repository"
	"ruralride/internal/service"
)

type sampleUser struct {
	username string
	password string
}

var sampleUsers = []sampleUser{
	{"admin", "admin123"},
	{"testuser", "test123"},
}

type sampleBooking struct {
	pickup, drop string
	vehicle      domain.VehicleType
	in           time.Duration
	payment      domain.PaymentMethod
	fare         string
	status       domain.BookingStatus
	name, phone  string
}

var sampleBookings = []sampleBooking{
	{"Railway Station, Cityville", "Central Mall, Cityville", domain.VehicleTypeCar, 2 * time.Hour, domain.PaymentMethodCash, "150", domain.BookingStatusPending, "John Doe", "+91-9876543210"},
	{"Airport Terminal 1", "Downtown Hotel", domain.VehicleTypeSUV, 4 * time.Hour, domain.PaymentMethodCard, "250", domain.BookingStatusConfirmed, "Jane Smith", "+91-9876543211"},
	{"Bus Stand, Old City", "New Market Area", domain.VehicleTypeAuto, time.Hour, domain.PaymentMethodUPI, "80", domain.BookingStatusPending, "Raj Patel", "+91-9876543212"},
}

func main() {
	var (
		envFile string
		keep    bool
	)
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flagSet.BoolVar(&keep, "keep", false, "do not clear existing users and bookings")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(envFile)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	log := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := app.NewStorage(ctx, cfg, nil, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open storage")
	}
	defer storage.Close(context.Background())

	if err := seed(ctx, storage, !keep, time.Now(), log); err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
}

func seed(ctx context.Context, storage *repository.Storage, reset bool, now time.Time, log logrus.FieldLogger) error {
	if reset {
		if err := storage.Users.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := storage.Bookings.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		log.Info("cleared existing data")
	}

	users := service.NewUserService(storage.Users, log)
	for _, u := range sampleUsers {
		if _, err := users.Register(ctx, u.username, u.password); err != nil {
			if errors.Is(err, service.ErrUsernameTaken) {
				log.WithField("username", u.username).Info("user already exists")
				continue
			}
			return fmt.Errorf("create user %s: %w", u.username, err)
		}
	}
	log.WithField("count", len(sampleUsers)).Info("sample users ready")

	bookings := service.NewBookingService(storage.Bookings, nil, nil, service.FarePolicy{}, log)
	for _, s := range sampleBookings {
		b, err := bookings.CreateFromSubmission(ctx, service.BookingSubmission{
			PickupLocation: s.pickup,
			DropLocation:   s.drop,
			VehicleType:    string(s.vehicle),
			DateTime:       now.Add(s.in).UTC().Format(time.RFC3339Nano),
			PaymentMethod:  string(s.payment),
			EstimatedFare:  s.fare,
			CustomerName:   s.name,
			CustomerPhone:  s.phone,
		})
		if err != nil {
			return fmt.Errorf("create booking for %s: %w", s.name, err)
		}
		if s.status != domain.BookingStatusPending {
			if _, err := bookings.UpdateBookingStatus(ctx, b.ID, string(s.status)); err != nil {
				return fmt.Errorf("set status for %s: %w", s.name, err)
			}
		}
	}
	log.WithField("count", len(sampleBookings)).Info("sample bookings created")
	return nil
}
