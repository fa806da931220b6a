package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientRateLimiter keeps one token bucket per client key
type ClientRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewClientRateLimiter creates a new per-client rate limiter
func NewClientRateLimiter(r rate.Limit, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		rate:  r,
		burst: burst,
	}
}

// GetLimiter returns the rate limiter for a given client key
func (l *ClientRateLimiter) GetLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// DailyQuota manages the global daily generation quota
type DailyQuota struct {
	count   int64
	limit   int64
	resetAt time.Time
	mu      sync.Mutex
	now     func() time.Time
	logger  *zap.Logger
}

// NewDailyQuota creates a new daily quota manager
func NewDailyQuota(limit int64, logger *zap.Logger) *DailyQuota {
	if logger == nil {
		logger = zap.NewNop()
	}
	q := &DailyQuota{
		limit:  limit,
		now:    time.Now,
		logger: logger.With(zap.String("component", "quota")),
	}
	q.resetAt = nextMidnightPT(q.now())
	return q
}

// Allow checks if a request is allowed and increments the counter
func (q *DailyQuota) Allow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	if now.After(q.resetAt) {
		q.logger.Info("Daily quota reset", zap.Int64("previous_count", q.count))
		q.count = 0
		q.resetAt = nextMidnightPT(now)
	}

	if q.count >= q.limit {
		return false
	}
	q.count++
	return true
}

// Remaining returns the remaining quota
func (q *DailyQuota) Remaining() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.limit - q.count
}

// Count returns the current count
func (q *DailyQuota) Count() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// RetryAfter returns the time until the quota resets
func (q *DailyQuota) RetryAfter() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.resetAt.Sub(q.now())
}

// nextMidnightPT returns the midnight after now in Pacific Time (Gemini API reset time)
func nextMidnightPT(now time.Time) time.Time {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		// Fallback to UTC if timezone not found
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

// KeyFunc picks the identity requests are limited by
type KeyFunc func(c *gin.Context) string

// ClientIPKey limits by client IP
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimitMiddleware applies the per-client limiter, then the global daily
// quota, so throttled requests do not consume quota. Both answer 429 with
// Retry-After in the API's error shape.
func RateLimitMiddleware(limiter *ClientRateLimiter, quota *DailyQuota, key KeyFunc, logger *zap.Logger) gin.HandlerFunc {
	if key == nil {
		key = ClientIPKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "ratelimit"))

	return func(c *gin.Context) {
		id := key(c)
		reservation := limiter.GetLimiter(id).Reserve()
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			retry := retryAfterSeconds(delay)
			logger.Info("Rate limited", zap.String("key", id))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "リクエストが多すぎます。しばらく待ってから再度お試しください。",
				"code":       "RATE_LIMITED",
				"retryAfter": retry,
			})
			return
		}

		if !quota.Allow() {
			retry := retryAfterSeconds(quota.RetryAfter())
			logger.Warn("Daily quota exhausted", zap.Int64("count", quota.Count()))
			c.Header("Retry-After", strconv.Itoa(retry))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "本日の利用上限に達しました。明日以降に再度お試しください。",
				"code":       "DAILY_QUOTA_EXCEEDED",
				"retryAfter": retry,
			})
			return
		}

		c.Next()
	}
}

func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
