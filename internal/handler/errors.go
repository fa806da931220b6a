package handler

import (
	"context"
	"errors"
	"net/http"

	"shoken-assist/backend/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// writeError maps domain errors to a status and a stable code. The Japanese
// message of domain errors is shown to the user as is.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		insufficient *model.InsufficientInputError
		empty        *model.EmptyInputError
		invalid      *model.InvalidInputError
		missing      *model.MissingCredentialError
		upstream     *model.UpstreamError
		blocked      *model.BlockedContentError
		malformed    *model.MalformedResponseError
		profileErr   *model.ProfileLoadError
	)

	switch {
	case errors.As(err, &insufficient):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_SAMPLES", err)
	case errors.As(err, &empty):
		respondError(c, http.StatusBadRequest, "EMPTY_INPUT", err)
	case errors.As(err, &invalid):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err)
	case errors.As(err, &profileErr):
		respondError(c, http.StatusBadRequest, "PROFILE_INVALID", err)
	case errors.As(err, &missing):
		respondError(c, http.StatusPreconditionFailed, "MISSING_API_KEY", err)
	case isRateLimitError(err):
		h.logger.Warn("Gemini API rate limit exceeded")
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":      "Gemini APIの利用上限に達しました。しばらく待ってから再度お試しください。",
			"code":       "GEMINI_RATE_LIMITED",
			"retryAfter": 60,
		})
	case errors.As(err, &upstream):
		h.logger.Warn("Gemini API error", zap.Int("status", upstream.Status))
		respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR", err)
	case errors.As(err, &blocked):
		respondError(c, http.StatusUnprocessableEntity, "CONTENT_BLOCKED", err)
	case errors.As(err, &malformed):
		respondError(c, http.StatusBadGateway, "MALFORMED_RESPONSE", err)
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "時間内に応答がありませんでした。もう一度お試しください。",
			"code":  "TIMEOUT",
		})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "処理に失敗しました。もう一度お試しください。",
			"code":  "INTERNAL_ERROR",
		})
	}
}

func respondError(c *gin.Context, httpStatus int, code string, err error) {
	c.JSON(httpStatus, gin.H{"error": err.Error(), "code": code})
}

// isRateLimitError checks if the error is a Gemini API rate limit error
func isRateLimitError(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
