package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientWindow struct {
	start time.Time
	count int
}

// memoryLimiter counts hits per key in fixed windows. Windows that ended
// are swept at most once per window, so the map only holds active clients.
type memoryLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	clients   map[string]*clientWindow
	lastSweep time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		max:     maxRequests,
		window:  window,
		clients: make(map[string]*clientWindow),
	}
}

// hit records a request for key at now and returns the count in the current window
func (l *memoryLimiter) hit(key string, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.window {
		for k, cw := range l.clients {
			if now.Sub(cw.start) > l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	cw, ok := l.clients[key]
	if !ok || now.Sub(cw.start) > l.window {
		cw = &clientWindow{start: now}
		l.clients[key] = cw
	}
	cw.count++
	return cw.count
}

func (l *memoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// MemoryRateLimit is a per-process fixed-window limiter keyed by client IP.
// Used when Redis is not configured.
func MemoryRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	lim := newMemoryLimiter(maxRequests, window)

	return func(c *gin.Context) {
		count := lim.hit(c.ClientIP(), time.Now())

		setLimitHeaders(c, maxRequests, int64(maxRequests-count))

		if count > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
