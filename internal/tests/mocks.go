package tests

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ruralride/internal/domain"
	"ruralride/internal/repository"
	"ruralride/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
	order    []string

	// Counters for verification
	CreateCallCount       int32
	GetByIDCallCount      int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	GetByIDError      error
	GetAllError       error
	UpdateStatusError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		m.order = append(m.order, booking.ID)
	}
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, nb *domain.NewBooking) (*domain.Booking, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	booking := &domain.Booking{
		ID:             uuid.New().String(),
		PickupLocation: nb.PickupLocation,
		DropLocation:   nb.DropLocation,
		VehicleType:    nb.VehicleType,
		DateTime:       nb.DateTime,
		PaymentMethod:  nb.PaymentMethod,
		EstimatedFare:  nb.EstimatedFare,
		Status:         domain.BookingStatusPending,
		CustomerName:   nb.CustomerName,
		CustomerPhone:  nb.CustomerPhone,
		CreatedAt:      time.Now().UTC(),
	}
	m.AddBooking(booking)
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.order))
	for _, id := range m.order {
		copy := *m.bookings[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return nil, m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	booking.Status = status
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = make(map[string]*domain.Booking)
	m.order = nil
	return nil
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
	GetError    error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, nu *domain.NewUser) (*domain.User, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == nu.Username {
			return nil, repository.ErrDuplicate
		}
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.users[user.ID] = user
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*domain.User)
	return nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING CACHE
// ──────────────────────────────────────────────

// MockBookingCache is a mock implementation of BookingCache.
type MockBookingCache struct {
	mu       sync.Mutex
	bookings map[string]domain.Booking

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockBookingCache creates a new mock booking cache.
func NewMockBookingCache() *MockBookingCache {
	return &MockBookingCache{
		bookings: make(map[string]domain.Booking),
	}
}

func (m *MockBookingCache) Get(ctx context.Context, id string) (*domain.Booking, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *MockBookingCache) Set(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = *booking
	return nil
}

func (m *MockBookingCache) Invalidate(ctx context.Context, id string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, id)
	return nil
}

// Has reports whether a booking is cached.
func (m *MockBookingCache) Has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bookings[id]
	return ok
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records every notification it receives.
type MockNotifier struct {
	mu   sync.Mutex
	sent []service.Notification

	// Error injection
	NotifyError error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, n service.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.NotifyError
}

// Sent returns the notifications received so far.
func (m *MockNotifier) Sent() []service.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]service.Notification, len(m.sent))
	copy(result, m.sent)
	return result
}

// ──────────────────────────────────────────────
// HELPERS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)

// discardLogger returns a logger that drops every entry.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// validSubmission returns a record that passes every booking rule.
func validSubmission() map[string]any {
	return map[string]any{
		"pickupLocation": "Village Square",
		"dropLocation":   "District Hospital",
		"vehicleType":    "auto",
		"dateTime":       "2030-05-01T09:30",
		"paymentMethod":  "cash",
		"estimatedFare":  "80",
		"customerName":   "Asha",
		"customerPhone":  "9876543210",
	}
}
