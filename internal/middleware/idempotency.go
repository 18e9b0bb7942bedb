package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	inFlightTTL       = 30 * time.Second
)

// StoredResponse is a response kept for replay to a repeated request.
type StoredResponse struct {
	StatusCode int         `json:"status_code"`
	Body       []byte      `json:"body"`
	Headers    http.Header `json:"headers"`
}

// IdempotencyStore persists responses by idempotency key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Set(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response when a mutating request repeats its Idempotency-Key.
// Store failures fall through to normal processing.
func IdempotencyMiddleware(store IdempotencyStore, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}
		scoped := c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		ctx := c.Request.Context()
		cached, err := store.Get(ctx, scoped)
		if err != nil {
			log.WithError(err).Warn("idempotency lookup failed")
			c.Next()
			return
		}
		if cached != nil {
			replay(c, cached)
			return
		}

		acquired, err := store.Acquire(ctx, scoped, inFlightTTL)
		if err != nil {
			log.WithError(err).Warn("idempotency claim failed")
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "A request with this Idempotency-Key is already in progress"})
			return
		}
		defer func() {
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				log.WithError(err).Warn("idempotency release failed")
			}
		}()

		// A request holding the claim may have stored its response and released between Get and Acquire.
		cached, err = store.Get(ctx, scoped)
		if err != nil {
			log.WithError(err).Warn("idempotency lookup failed")
		} else if cached != nil {
			replay(c, cached)
			return
		}

		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		if status := c.Writer.Status(); status >= 200 && status < 500 {
			resp := &StoredResponse{
				StatusCode: status,
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			if err := store.Set(context.WithoutCancel(ctx), scoped, resp, idempotencyTTL); err != nil {
				log.WithError(err).Warn("idempotency store failed")
			}
		}
	}
}

func replay(c *gin.Context, resp *StoredResponse) {
	for k, v := range resp.Headers {
		for _, val := range v {
			c.Header(k, val)
		}
	}
	c.Header("Idempotent-Replayed", "true")
	contentType := resp.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
	c.Abort()
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	// Only cache Content-Type header.
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
