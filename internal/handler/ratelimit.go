package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/sydneyevents/event-listing-service/internal/dto"
)

const limiterIdleTTL = time.Hour

// ipRateLimiter keeps one token bucket per client IP
type ipRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newIPRateLimiter(perSecond float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters:  make(map[string]*limiterEntry),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// allow reports whether a request from ip may proceed
func (l *ipRateLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		l.sweep(now)
	}
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastAccess = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// sweep drops limiters idle for longer than limiterIdleTTL; callers hold mu
func (l *ipRateLimiter) sweep(now time.Time) {
	threshold := now.Add(-limiterIdleTTL)
	for ip, entry := range l.limiters {
		if entry.lastAccess.Before(threshold) {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

func (l *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests, please try again shortly",
			})
			return
		}
		c.Next()
	}
}
