package middleware

import (
	"net/http"
	"sync"
	"time"

	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterEntry tracks a per-caller token bucket with its last use, so idle
// entries can be evicted.
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	limiters       sync.Map // caller key -> *limiterEntry
	limiterSweepAt time.Time
	limiterMu      sync.Mutex
	limiterIdleTTL = 10 * time.Minute
)

// RateLimit throttles requests per authenticated user (falling back to client
// IP), allowing `perMinute` requests with a burst of the same size.
func RateLimit(perMinute int) gin.HandlerFunc {
	limit := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("userID"); exists {
			if s, ok := userID.(string); ok && s != "" {
				key = s
			}
		}

		entry := getLimiter(key, limit, perMinute)
		if !entry.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, "Too many requests, slow down"))
			return
		}

		c.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int) *limiterEntry {
	sweepIdleLimiters()

	if v, ok := limiters.Load(key); ok {
		entry := v.(*limiterEntry)
		entry.lastSeen = time.Now()
		return entry
	}

	entry := &limiterEntry{limiter: rate.NewLimiter(limit, burst), lastSeen: time.Now()}
	actual, _ := limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry)
}

func sweepIdleLimiters() {
	limiterMu.Lock()
	defer limiterMu.Unlock()

	if time.Since(limiterSweepAt) < limiterIdleTTL {
		return
	}
	limiterSweepAt = time.Now()

	limiters.Range(func(k, v interface{}) bool {
		if time.Since(v.(*limiterEntry).lastSeen) > limiterIdleTTL {
			limiters.Delete(k)
		}
		return true
	})
}
