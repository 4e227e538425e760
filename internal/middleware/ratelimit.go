package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/atinyakov/zenly/internal/apperror"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures per-client request limits.
type RateLimiterConfig struct {
	// Rate is the sustained number of requests per second.
	Rate rate.Limit
	// Burst is how many requests may arrive at once.
	Burst int
	// CleanupInterval is how often idle client entries are dropped.
	CleanupInterval time.Duration
}

// PerMinute returns a config allowing n requests per minute per client,
// all of which may be spent at once.
func PerMinute(n int) RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(float64(n) / 60.0),
		Burst:           n,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	config RateLimiterConfig
	log    *zap.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a RateLimiter and starts its cleanup loop.
// Call Stop to end the loop.
func NewRateLimiter(config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{
		config:  config,
		log:     log,
		clients: make(map[string]*clientLimiter),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over the client's budget with 429 and a
// Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if !rl.limiter(key).Allow() {
			rl.log.Warn("rate limit exceeded", zap.String("client", key), zap.String("path", r.URL.Path))
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			apperror.Write(w, apperror.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientCount returns the number of tracked clients.
func (rl *RateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if c, ok := rl.clients[key]; ok {
		c.lastAccess = time.Now()
		return c.limiter
	}
	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	rl.clients[key] = &clientLimiter{limiter: l, lastAccess: time.Now()}
	return l
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals.
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		if now.Sub(c.lastAccess) > ttl {
			delete(rl.clients, key)
		}
	}
}

// retryAfterSeconds estimates how long until one token is refilled.
func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.config.Rate <= 0 {
		return 60
	}
	secs := int(math.Ceil(1.0 / float64(rl.config.Rate)))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// clientIP keys the limiter on RemoteAddr. The router only mounts chi's
// RealIP, which rewrites it from proxy headers, behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
