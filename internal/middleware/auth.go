package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ruralride/internal/domain"
	"ruralride/internal/service"
)

const userContextKey = "user"

// Authenticator checks operator credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}

// BasicAuth guards a route group with HTTP basic credentials checked against the operator accounts.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), username, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				unauthorized(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Authentication unavailable"})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated operator, or nil outside a BasicAuth group.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Basic realm="ruralride"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
}
