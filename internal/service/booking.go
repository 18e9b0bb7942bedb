package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"ruralride/internal/domain"
	"ruralride/internal/fare"
	"ruralride/internal/repository"
)

// BookingCache is a read-through cache for single bookings.
// Get returns nil on a miss.
type BookingCache interface {
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Set(ctx context.Context, booking *domain.Booking) error
	Invalidate(ctx context.Context, id string) error
}

// FarePolicy controls server-side checking of client estimates.
// With Verify off the submitted estimate is stored as given.
type FarePolicy struct {
	Verify    bool
	Tolerance float64
}

// BookingService handles booking operations.
type BookingService struct {
	repo     repository.BookingRepository
	cache    BookingCache
	notifier Notifier
	fares    FarePolicy
	log      logrus.FieldLogger
}

// NewBookingService creates a new BookingService. cache and notifier may be nil.
func NewBookingService(
	repo repository.BookingRepository,
	cache BookingCache,
	notifier Notifier,
	fares FarePolicy,
	log logrus.FieldLogger,
) *BookingService {
	return &BookingService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		fares:    fares,
		log:      log,
	}
}

// CreateBooking validates an untyped submission and persists it.
func (s *BookingService) CreateBooking(ctx context.Context, raw map[string]any) (*domain.Booking, error) {
	sub, err := ParseSubmission(raw)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, sub)
}

// CreateFromSubmission validates a typed submission and persists it.
func (s *BookingService) CreateFromSubmission(ctx context.Context, sub BookingSubmission) (*domain.Booking, error) {
	sub = sub.Trimmed()
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return s.create(ctx, sub)
}

func (s *BookingService) create(ctx context.Context, sub BookingSubmission) (*domain.Booking, error) {
	nb, err := sub.toNewBooking()
	if err != nil {
		return nil, err
	}

	if s.fares.Verify {
		amount, _ := strconv.ParseFloat(nb.EstimatedFare, 64)
		if !fare.Verify(nb.VehicleType, amount, s.fares.Tolerance) {
			return nil, &ValidationError{Fields: []FieldError{{
				Field:   "estimatedFare",
				Message: fmt.Sprintf("Estimated fare does not match the current rate of %s", fare.Format(fare.Estimate(nb.VehicleType))),
			}}}
		}
	}

	booking, err := s.repo.Create(ctx, nb)
	if err != nil {
		return nil, s.storageError("create booking", err)
	}

	s.cacheSet(ctx, booking)
	s.notify(ctx, bookingCreatedNotification(booking))
	return booking, nil
}

// ListBookings returns every booking. An empty store yields an empty slice.
func (s *BookingService) ListBookings(ctx context.Context) ([]*domain.Booking, error) {
	bookings, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, s.storageError("list bookings", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

// GetBooking retrieves a booking by ID.
// Returns nil if no booking exists with the given ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("booking_id", id).Warn("booking cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError("get booking", err)
	}
	if booking != nil {
		s.cacheSet(ctx, booking)
	}
	return booking, nil
}

// UpdateBookingStatus sets the status of a booking. Any status may follow any other.
// Returns nil if no booking exists with the given ID.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	st, ok := domain.ParseBookingStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	booking, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, s.storageError("update booking status", err)
	}
	if booking == nil {
		return nil, nil
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.log.WithError(err).WithField("booking_id", id).Warn("booking cache invalidation failed")
		}
	}
	s.notify(ctx, statusChangedNotification(booking))
	return booking, nil
}

func (s *BookingService) storageError(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("storage operation failed")
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func (s *BookingService) cacheSet(ctx context.Context, booking *domain.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, booking); err != nil {
		s.log.WithError(err).WithField("booking_id", booking.ID).Warn("booking cache write failed")
	}
}

func (s *BookingService) notify(ctx context.Context, n Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.WithError(err).WithField("type", n.Type).Warn("notification delivery failed")
	}
}
