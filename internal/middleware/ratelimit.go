package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Drago-03/Documentation.AI/internal/pkg/errcode"
	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu            sync.Mutex
	limit         rate.Limit
	burst         int
	idle          time.Duration
	clients       map[string]*clientLimiter
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

// RateLimit allows perMinute requests per client IP and route. Zero disables it.
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newRateLimiter(perMinute, time.Now)
	return limiter.handle
}

func newRateLimiter(perMinute int, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		limit:         rate.Every(time.Minute / time.Duration(perMinute)),
		burst:         perMinute,
		idle:          2 * time.Minute,
		clients:       make(map[string]*clientLimiter),
		sweepInterval: time.Minute,
		now:           now,
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	ip := c.ClientIP()
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	key := strings.Join([]string{ip, c.Request.Method, path}, "|")

	now := l.now()
	l.mu.Lock()
	l.cleanupExpiredLocked(now)
	entry, ok := l.clients[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	allowed := entry.limiter.AllowN(now, 1)
	l.mu.Unlock()

	if !allowed {
		logutil.GetLogger(c.Request.Context()).Warn("rate limit hit",
			zap.String("ip", ip),
			zap.String("path", path),
		)
		response.Error(c, http.StatusTooManyRequests, errcode.TypeTooMany, "Rate limit exceeded, try again later")
		c.Abort()
		return
	}
	c.Next()
}

func (l *rateLimiter) cleanupExpiredLocked(now time.Time) {
	if !l.lastSweep.IsZero() && now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}
