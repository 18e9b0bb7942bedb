package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ruralride/internal/domain"
)

// DefaultBookingCacheTTL bounds how stale a cached booking may be.
const DefaultBookingCacheTTL = 30 * time.Second

const bookingCachePrefix = "cache:booking:"

// BookingCache caches single bookings in Redis.
type BookingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBookingCache creates a new BookingCache. A non-positive ttl uses DefaultBookingCacheTTL.
func NewBookingCache(client *redis.Client, ttl time.Duration) *BookingCache {
	if ttl <= 0 {
		ttl = DefaultBookingCacheTTL
	}
	return &BookingCache{client: client, ttl: ttl}
}

// Get retrieves a booking from cache.
// Returns nil on a cache miss.
func (s *BookingCache) Get(ctx context.Context, id string) (*domain.Booking, error) {
	data, err := s.client.Get(ctx, bookingKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var booking domain.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Set stores a booking in cache.
func (s *BookingCache) Set(ctx context.Context, booking *domain.Booking) error {
	data, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, bookingKey(booking.ID), data, s.ttl).Err()
}

// Invalidate removes a booking from cache.
func (s *BookingCache) Invalidate(ctx context.Context, id string) error {
	return s.client.Del(ctx, bookingKey(id)).Err()
}

func bookingKey(id string) string {
	return bookingCachePrefix + id
}
