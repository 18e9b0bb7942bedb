package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and the active storage backend.
type HealthHandler struct {
	backend string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(backend string) *HealthHandler {
	return &HealthHandler{backend: backend}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{"status": "ok", "storage": h.backend})
}
