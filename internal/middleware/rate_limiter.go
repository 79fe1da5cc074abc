package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rmitchellscott/ditherlab/internal/logging"
)

// ClientRateLimiter implements per-client rate limiting for processing endpoints
type ClientRateLimiter struct {
	limit   rate.Limit
	burst   int
	clients map[string]*clientLimit
	mutex   sync.Mutex
}

type clientLimit struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientRateLimiter allows perMinute requests per client IP, with bursts up to the same amount.
// A non-positive perMinute disables limiting.
func NewClientRateLimiter(perMinute int) *ClientRateLimiter {
	limit := rate.Inf
	burst := 0
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}
	return &ClientRateLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientLimit),
	}
}

// RateLimit is a middleware that rejects clients exceeding their budget with 429
func (l *ClientRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.allow(ip) {
			logging.WarnWithComponent(logging.ComponentAPI, "Rate limit exceeded", "ip", ip, "path", c.FullPath())
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (l *ClientRateLimiter) allow(key string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	entry, ok := l.clients[key]
	if !ok {
		entry = &clientLimit{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// Cleanup forgets clients idle for longer than maxIdle
func (l *ClientRateLimiter) Cleanup(maxIdle time.Duration) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for key, entry := range l.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// RequestSizeLimit rejects request bodies larger than maxBytes with 413
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			logging.WarnWithComponent(logging.ComponentAPI, "Request too large",
				"size", c.Request.ContentLength, "limit", maxBytes, "ip", c.ClientIP())
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":    "Request payload too large",
				"max_size": fmt.Sprintf("%dMB", maxBytes>>20),
			})
			c.Abort()
			return
		}

		// Bodies without a declared length are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
