package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ocrgate/internal/domain"
	"ocrgate/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	statsService service.StatsService
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(statsService service.StatsService) *HealthHandler {
	return &HealthHandler{statsService: statsService}
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Process is up"
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Ready"
// @Failure 503 {object} HealthResponse "Extraction engine not ready"
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.statsService.Health(c.Request.Context())
	if report.Status != domain.HealthStatusHealthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "extraction engine not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
