package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"billflow/internal/logger"
	"billflow/internal/port"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	store port.DocumentStore
}

// NewHealthHandler creates a HealthHandler that probes the document store.
func NewHealthHandler(store port.DocumentStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The store must answer a ping within readinessTimeout.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		log := logger.WithComponent("health")
		log.Warn().Err(err).Msg("document store ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "store": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "ok"})
}
