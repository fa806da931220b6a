package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Agent     string `json:"agent"`
	// Credential tells whether a server-wide API key is configured
	Credential string `json:"credential"`
}

// HandleHealth returns the health status of the service
// Used for Cloud Run liveness probe
func (h *Handler) HandleHealth(c *gin.Context) {
	agentStatus := "unavailable"
	if h.agent != nil {
		agentStatus = "ready"
	}

	status := "healthy"
	if agentStatus == "unavailable" {
		status = "degraded"
	}

	credential := "per_user"
	if h.fallbackAPIKey != "" {
		credential = "server_fallback"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Agent:      agentStatus,
		Credential: credential,
	})
}

// HandleReadiness returns whether the service is ready to accept traffic
// Used for Cloud Run startup probe - stricter than health
func (h *Handler) HandleReadiness(c *gin.Context) {
	if h.agent == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "agent_not_initialized",
		})
		return
	}

	if _, _, err := h.store.Get(c.Request.Context(), "readiness:probe"); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "store_unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
