// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the per-client token-bucket limiter. Each client gets
// two buckets: one for safe methods (GET, HEAD, OPTIONS) and a smaller one for
// writes, so a burst of saves from a form never locks the user out of reading
// their diary. Buckets live in memory and are swept once they go idle.
//
// The limiter is process-local; it protects a single instance, not a fleet.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc selects the identity used to key a rate-limit bucket.
type KeyFunc func(*gin.Context) string

// KeyByClientIP buckets requests by client IP, as resolved by gin (honouring
// trusted proxies). Keys look like "ip:203.0.113.7".
func KeyByClientIP() KeyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// RateLimitOptions configures NewRateLimiter.
type RateLimitOptions struct {
	// RPS and Burst size the write bucket. Burst <= 0 means 1.
	RPS   float64
	Burst int

	// ReadMultiplier scales RPS and Burst for the read bucket. Values < 1
	// mean 1 (reads and writes share the same budget size).
	ReadMultiplier int

	// SkipPaths are route patterns (gin FullPath) that are never limited,
	// e.g. "/health" and "/metrics".
	SkipPaths []string

	// Key defaults to KeyByClientIP.
	Key KeyFunc

	// IdleTTL is how long an unused client keeps its buckets. Default 10m.
	IdleTTL time.Duration

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

type clientBuckets struct {
	read, write *rate.Limiter
	lastSeen    time.Time
}

// RateLimiter enforces per-client read and write budgets. It is safe for
// concurrent use.
type RateLimiter struct {
	opts RateLimitOptions
	skip map[string]struct{}

	mu        sync.Mutex
	clients   map[string]*clientBuckets
	lastSweep time.Time
}

// NewRateLimiter applies defaults to opts and returns a limiter ready to be
// installed with Handler.
func NewRateLimiter(opts RateLimitOptions) *RateLimiter {
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.ReadMultiplier < 1 {
		opts.ReadMultiplier = 1
	}
	if opts.Key == nil {
		opts.Key = KeyByClientIP()
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 10 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}
	return &RateLimiter{
		opts:      opts,
		skip:      skip,
		clients:   make(map[string]*clientBuckets),
		lastSweep: opts.Now(),
	}
}

// limiter returns the bucket for key and the request kind, creating the
// client's buckets on first use. Idle clients are swept at most once per
// IdleTTL, before the lookup, so a stale client is rebuilt fresh.
func (rl *RateLimiter) limiter(key string, write bool, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) >= rl.opts.IdleTTL {
		for k, b := range rl.clients {
			if now.Sub(b.lastSeen) >= rl.opts.IdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	b, ok := rl.clients[key]
	if !ok {
		m := rl.opts.ReadMultiplier
		b = &clientBuckets{
			write: rate.NewLimiter(rate.Limit(rl.opts.RPS), rl.opts.Burst),
			read:  rate.NewLimiter(rate.Limit(rl.opts.RPS*float64(m)), rl.opts.Burst*m),
		}
		rl.clients[key] = b
	}
	b.lastSeen = now
	if write {
		return b.write
	}
	return b.read
}

func (rl *RateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay of a completed create. Replays do not consume tokens.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// Handler returns the Gin middleware. A request over budget is rejected with
// 429, a Retry-After header (whole seconds until a token is available) and
// the usual error envelope with code "too_many_requests".
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, skip := rl.skip[c.FullPath()]; skip || IsRateBypass(c) {
			c.Next()
			return
		}

		now := rl.opts.Now()
		lim := rl.limiter(rl.opts.Key(c), isWrite(c.Request.Method), now)

		res := lim.ReserveN(now, 1)
		if !res.OK() {
			tooManyRequests(c, time.Second)
			return
		}
		if wait := res.DelayFrom(now); wait > 0 {
			res.CancelAt(now)
			tooManyRequests(c, wait)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, wait time.Duration) {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"request_id": c.Writer.Header().Get(HeaderRequestID),
		"code":       "too_many_requests",
		"message":    "rate limit exceeded",
	})
}
