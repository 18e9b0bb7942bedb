package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"ruralride/internal/middleware"
)

const (
	idempotencyPrefix = "idempotency:"
	inFlightPrefix    = "lock:idempotency:"
)

// IdempotencyStore keeps replayable responses keyed by the client's Idempotency-Key.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Get returns the stored response for key.
// Returns nil if nothing has been stored.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*middleware.StoredResponse, error) {
	data, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var resp middleware.StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Set stores a response for key.
func (s *IdempotencyStore) Set(ctx context.Context, key string, resp *middleware.StoredResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyPrefix+key, data, ttl).Err()
}

// Acquire claims key for a request in flight.
// Returns true if the claim was taken, false if another request holds it.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, inFlightPrefix+key, "1", ttl).Result()
}

// Release drops the in-flight claim for key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, inFlightPrefix+key).Err()
}
