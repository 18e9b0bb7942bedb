package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ruralride/internal/domain"
	"ruralride/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memoryIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]*StoredResponse
	claims    map[string]bool
	getErr    error
	// beforeAcquire runs ahead of each claim attempt.
	beforeAcquire func(key string)
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{
		responses: make(map[string]*StoredResponse),
		claims:    make(map[string]bool),
	}
}

func (s *memoryIdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.responses[key], nil
}

func (s *memoryIdempotencyStore) Set(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[key] = resp
	return nil
}

func (s *memoryIdempotencyStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if s.beforeAcquire != nil {
		s.beforeAcquire(key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims[key] {
		return false, nil
	}
	s.claims[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, key)
	return nil
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware())
	r.GET("/api/bookings", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bookings", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIdempotencyMiddleware_ReplaysResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0

	r := gin.New()
	r.Use(IdempotencyMiddleware(store, quietLogger()))
	r.POST("/api/bookings", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{}"))
		req.Header.Set(idempotencyHeader, "abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send()
	second := send()

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	assert.Empty(t, store.claims)
}

func TestIdempotencyMiddleware_WithoutKey(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0

	r := gin.New()
	r.Use(IdempotencyMiddleware(store, quietLogger()))
	r.POST("/api/bookings", func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/bookings", nil))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.responses)
}

func TestIdempotencyMiddleware_InFlightConflict(t *testing.T) {
	store := newMemoryIdempotencyStore()
	store.claims["POST:/api/bookings:abc"] = true

	r := gin.New()
	r.Use(IdempotencyMiddleware(store, quietLogger()))
	r.POST("/api/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set(idempotencyHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotencyMiddleware_ResponseStoredBeforeClaim(t *testing.T) {
	store := newMemoryIdempotencyStore()
	// The earlier request finishes after this one's lookup missed but before it claims the key.
	store.beforeAcquire = func(key string) {
		_ = store.Set(context.Background(), key, &StoredResponse{
			StatusCode: http.StatusCreated,
			Body:       []byte(`{"id":"first"}`),
			Headers:    http.Header{"Content-Type": []string{"application/json"}},
		}, time.Minute)
	}
	calls := 0

	r := gin.New()
	r.Use(IdempotencyMiddleware(store, quietLogger()))
	r.POST("/api/bookings", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "second"})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{}"))
	req.Header.Set(idempotencyHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"first"}`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.Empty(t, store.claims)
}

func TestIdempotencyMiddleware_StoreErrorFallsThrough(t *testing.T) {
	store := newMemoryIdempotencyStore()
	store.getErr = errors.New("redis down")

	r := gin.New()
	r.Use(IdempotencyMiddleware(store, quietLogger()))
	r.POST("/api/bookings", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	req.Header.Set(idempotencyHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
}

type fakeAuthenticator struct {
	err error
}

func (f fakeAuthenticator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if username == "admin" && password == "admin123" {
		return &domain.User{ID: "u-1", Username: username}, nil
	}
	return nil, service.ErrInvalidCredentials
}

func TestBasicAuth(t *testing.T) {
	tests := []struct {
		name     string
		auth     fakeAuthenticator
		user     string
		password string
		setAuth  bool
		want     int
	}{
		{"valid", fakeAuthenticator{}, "admin", "admin123", true, http.StatusOK},
		{"wrong password", fakeAuthenticator{}, "admin", "nope", true, http.StatusUnauthorized},
		{"missing header", fakeAuthenticator{}, "", "", false, http.StatusUnauthorized},
		{"store failure", fakeAuthenticator{err: service.ErrStorage}, "admin", "admin123", true, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", BasicAuth(tt.auth), func(c *gin.Context) {
				user := CurrentUser(c)
				require.NotNil(t, user)
				c.String(http.StatusOK, user.Username)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.password)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(quietLogger()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "fixed")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "fixed", w.Header().Get(requestIDHeader))
}
