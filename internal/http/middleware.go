package http

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"ip":      c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		h.logger.WithField("path", c.Request.URL.Path).Errorf("panic: %v", recovered)
		h.renderError(c, http.StatusInternalServerError, "error.generic")
		c.Abort()
	})
}

func (h *Handler) loginThrottle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.loginLimit.allow(c.ClientIP()) {
			h.logger.WithField("ip", c.ClientIP()).Warn("login throttled")
			h.renderError(c, http.StatusTooManyRequests, "error.throttled")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ipLimiter keeps one token bucket per client ip. Idle buckets are swept at
// most once per limiterIdleTTL.
type ipLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	limiters  map[string]*limiterEntry
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 10 * time.Minute

// newIPLimiter allows perMinute events per ip; a non positive rate disables throttling.
func newIPLimiter(perMinute float64, burst int) *ipLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipLimiter{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*limiterEntry),
		now:      time.Now,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.lastSweep.IsZero() {
		l.lastSweep = now
	}
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *ipLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}
