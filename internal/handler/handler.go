package handler

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"shoken-assist/backend/internal/agent"
	"shoken-assist/backend/internal/agent/deps"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const (
	// GenerateTimeout is the maximum time allowed for one generation request
	GenerateTimeout = 60 * time.Second
	// UserIDHeader lets a client keep its settings across IP changes
	UserIDHeader = "X-User-ID"
)

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Handler serves the HTTP API
type Handler struct {
	agent          *agent.RemarkAgent
	store          deps.KeyValueStore
	fallbackAPIKey string
	logger         *zap.Logger
	userLocks      sync.Map
}

// New creates a Handler. agent may be nil, in which case the service
// reports itself as degraded and LLM routes answer 503.
func New(a *agent.RemarkAgent, store deps.KeyValueStore, fallbackAPIKey string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		agent:          a,
		store:          store,
		fallbackAPIKey: fallbackAPIKey,
		logger:         logger.With(zap.String("component", "handler")),
	}
}

// Register mounts every route. llmLimit guards the routes that call the model.
func (h *Handler) Register(r gin.IRouter, llmLimit gin.HandlerFunc) {
	r.GET("/health", h.HandleHealth)
	r.GET("/ready", h.HandleReadiness)

	api := r.Group("/api")
	{
		api.GET("/state", h.HandleGetState)
		api.PUT("/api-key", h.HandleSaveAPIKey)
		api.GET("/samples", h.HandleGetSamples)
		api.PUT("/samples", h.HandleSaveSamples)
		api.POST("/style/analyze", llmLimit, h.HandleAnalyzeStyle)
		api.GET("/style", h.HandleGetStyle)
		api.GET("/style/table", h.HandleExportStyleTable)
		api.PUT("/style/table", h.HandleImportStyleTable)
		api.DELETE("/style", h.HandleResetStyle)
		api.POST("/remarks", llmLimit, h.HandleGenerateRemark)
	}
}

// UserKey scopes stored settings. Rate limiting keys on the client IP instead,
// since the header is not authenticated.
func UserKey(c *gin.Context) string {
	if id := norm.NFC.String(c.GetHeader(UserIDHeader)); userIDPattern.MatchString(id) {
		return "user_" + id
	}
	// Use IP address as a simple user identifier
	ip := c.ClientIP()
	if ip == "" {
		ip = "anonymous"
	}
	return "ip_" + ip
}

func (h *Handler) userContext(c *gin.Context) *agent.UserContext {
	return agent.NewUserContext(UserKey(c), h.store, h.fallbackAPIKey)
}

// lockUser serializes requests of one user the way a single-user host would
func (h *Handler) lockUser(userID string) func() {
	v, _ := h.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (h *Handler) agentAvailable(c *gin.Context) bool {
	if h.agent != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "AIサービスを利用できません。",
		"code":  "SERVICE_UNAVAILABLE",
	})
	return false
}
