package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitRule caps requests per second with a burst allowance.
type RateLimitRule struct {
	Rate  rate.Limit
	Burst int
}

// RateLimiter keeps one token bucket per principal.
type RateLimiter struct {
	mu      sync.Mutex
	rule    RateLimitRule
	buckets map[string]*rate.Limiter
}

// NewRateLimiter constructs a limiter applying the same rule to every principal.
func NewRateLimiter(rule RateLimitRule) *RateLimiter {
	return &RateLimiter{
		rule:    rule,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.buckets[key]
	if !ok {
		lim = rate.NewLimiter(l.rule.Rate, l.rule.Burst)
		l.buckets[key] = lim
	}
	return lim
}

// Allow reports whether one request from the principal may proceed.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || l.rule.Rate <= 0 || l.rule.Burst <= 0 {
		return true
	}
	return l.limiterFor(key).Allow()
}

// RateLimit throttles requests per authenticated user, falling back to the
// client IP before authentication resolves.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := ""
		if userID := UserIDFromContext(c); userID != 0 {
			principal = "user:" + strconv.FormatInt(userID, 10)
		}
		if principal == "" {
			principal = "ip:" + strings.TrimSpace(c.ClientIP())
		}
		if limiter.Allow(principal) {
			c.Next()
			return
		}
		c.Header("Retry-After", "1")
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":        "rate_limited",
			"retryAfterMs": int(time.Second / time.Millisecond),
		})
		c.Abort()
	}
}
