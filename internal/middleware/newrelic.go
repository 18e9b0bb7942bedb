package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// TransactionAttributes tags the current New Relic transaction with the storage backend and request ID.
// It must run after nrgin.Middleware and is a no-op when no transaction is active.
func TransactionAttributes(backend string) gin.HandlerFunc {
	return func(c *gin.Context) {
		txn := nrgin.Transaction(c)
		if txn == nil {
			c.Next()
			return
		}

		txn.AddAttribute("storage.backend", backend)
		if id, ok := c.Get("request_id"); ok {
			txn.AddAttribute("request.id", id)
		}

		c.Next()

		// Record error if present.
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
