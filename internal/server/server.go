// Package server wires configuration, storage, the remark agent and the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shoken-assist/backend/internal/agent"
	"shoken-assist/backend/internal/config"
	"shoken-assist/backend/internal/handler"
	"shoken-assist/backend/internal/middleware"
	"shoken-assist/backend/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ShutdownTimeout bounds graceful shutdown
const ShutdownTimeout = 10 * time.Second

// OpenStore opens the backend selected by cfg
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	return store.Open(ctx, store.Options{
		Driver:      cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		DatabaseURL: cfg.Store.DatabaseURL,
	})
}

// NewAgent builds the remark agent on top of the Gemini client
func NewAgent(cfg *config.Config, logger *zap.Logger) *agent.RemarkAgent {
	llm := agent.NewGeminiLLMClient(agent.GeminiConfig{
		Model:      cfg.Gemini.Model,
		APIVersion: cfg.Gemini.APIVersion,
		BaseURL:    cfg.Gemini.BaseURL,
	}, logger)
	return agent.NewRemarkAgent(llm, logger)
}

// Run serves the API until ctx ends or SIGINT/SIGTERM arrives
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting shoken-assist", zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()
	logger.Info("Store opened", zap.String("driver", cfg.Store.Driver))

	h := handler.New(NewAgent(cfg, logger), st, cfg.Gemini.APIKey, logger)
	r := NewRouter(cfg, h, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server ready", zap.String("port", cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// AllowedOrigins resolves the CORS origins for cfg
func AllowedOrigins(cfg *config.Config) []string {
	origins := []string{}
	if !cfg.IsProduction() {
		origins = append(origins, "http://localhost:5173")
	}
	if cfg.CloudRunURL != "" {
		origins = append(origins, cfg.CloudRunURL)
	}
	return append(origins, cfg.AllowedOrigins...)
}

// NewRouter builds the gin engine with middleware and routes
func NewRouter(cfg *config.Config, h *handler.Handler, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	// Security headers (before CORS)
	r.Use(middleware.SecurityHeaders())

	allowedOrigins := AllowedOrigins(cfg)
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept-Language", handler.UserIDHeader, RequestIDHeader},
		ExposeHeaders:    []string{"Retry-After", "Content-Disposition", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		// same-origin only
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	r.Use(cors.New(corsConfig))

	limiter := middleware.NewClientRateLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst)
	quota := middleware.NewDailyQuota(cfg.DailyQuota, logger)
	logger.Info("Rate limiting enabled",
		zap.Float64("per_second", cfg.RateLimitPerSecond),
		zap.Int("burst", cfg.RateLimitBurst),
		zap.Int64("daily_quota", cfg.DailyQuota))

	h.Register(r, middleware.RateLimitMiddleware(limiter, quota, middleware.ClientIPKey, logger))

	if cfg.IsProduction() {
		r.Static("/assets", "/app/static/assets")

		r.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
				return
			}
			c.File("/app/static/index.html")
		})
	}

	logger.Info("Router configured", zap.Strings("allowed_origins", allowedOrigins))
	return r
}

// RequestIDHeader carries the request ID; one is generated when the client sends none
const RequestIDHeader = "X-Request-ID"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.With(zap.String("component", "http"))
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()
		logger.Info("Request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
