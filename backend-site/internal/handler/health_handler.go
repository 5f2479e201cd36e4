package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OttoDev-System/intellicor-saas/pkg/response"
)

// HealthChecker is a dependency probed by the readiness check
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	service  string
	checks   map[string]HealthChecker
	timeout  time.Duration
	registry int
}

// NewHealthHandler creates a HealthHandler. Nil checkers are skipped.
func NewHealthHandler(service string, tenants int, checks map[string]HealthChecker) *HealthHandler {
	active := make(map[string]HealthChecker, len(checks))
	for name, chk := range checks {
		if chk != nil {
			active[name] = chk
		}
	}
	return &HealthHandler{
		service:  service,
		checks:   active,
		timeout:  2 * time.Second,
		registry: tenants,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := gin.H{"tenants": h.registry}
	ready := h.registry > 0
	for name, chk := range h.checks {
		if err := chk.HealthCheck(ctx); err != nil {
			status[name] = err.Error()
			ready = false
			continue
		}
		status[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, response.ErrorWithDetails(
			response.ErrCodeServiceUnavailable, "Service not ready", stringify(status)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": status})
}

func stringify(m gin.H) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
