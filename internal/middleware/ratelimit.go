package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"contesthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimiterConfig holds the fixed-window limit settings.
type RateLimiterConfig struct {
	Limit         int           // max requests per key per window
	Window        time.Duration // fixed window length
	SweepInterval time.Duration // eviction period for stale windows
}

func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Limit:         120,
		Window:        time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

type window struct {
	start time.Time
	count int
}

// RateLimiter counts requests per key in fixed windows. The key is the
// authenticated user id when present, the client IP otherwise. Increments are
// atomic per key; the stale-window sweep runs on its own period and never
// blocks the request path beyond the map lock.
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	windows map[string]*window

	stopCh chan struct{}
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Limit <= 0 {
		config.Limit = DefaultRateLimiterConfig().Limit
	}
	if config.Window <= 0 {
		config.Window = DefaultRateLimiterConfig().Window
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultRateLimiterConfig().SweepInterval
	}

	rl := &RateLimiter{
		config:  config,
		windows: make(map[string]*window),
		stopCh:  make(chan struct{}),
	}

	go rl.sweepLoop()

	return rl
}

// Stop terminates the background sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware rejects requests over the per-key limit with 429 and a
// Retry-After of the seconds remaining in the current window.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID := c.GetInt64("user_id"); userID != 0 {
			key = "u:" + strconv.FormatInt(userID, 10)
		}

		allowed, retryAfter := rl.Allow(key, time.Now())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Error(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}

// Allow records one request for key and reports whether it fits the current
// window. When it does not, retryAfter is the whole seconds until reset.
func (rl *RateLimiter) Allow(key string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.config.Window {
		rl.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= rl.config.Limit {
		remaining := rl.config.Window - now.Sub(w.start)
		retryAfter := int(remaining.Seconds()) + 1
		return false, retryAfter
	}

	w.count++
	return true, 0
}

// ActiveKeys returns the tracked window count. Tests and metrics only.
func (rl *RateLimiter) ActiveKeys() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.windows)
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// sweep drops windows that expired before the sweep started. Request-path
// increments recreate them on demand.
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.config.Window {
			delete(rl.windows, key)
		}
	}
}
