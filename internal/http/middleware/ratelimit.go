// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-memory token-bucket rate limiter with one
// bucket per client identity and opportunistic eviction of idle buckets.
//
// Reads and writes from the same client draw from separate buckets, so a
// burst of votes or submissions does not lock the client out of the
// listing. Operational endpoints are exempted by path with Exempt.
//
// The limiter is process-local, which matches the single-instance board.
package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// keyFunc selects the identity used to key a rate-limit bucket.
type keyFunc func(*gin.Context) string

// ctxKeyRateBypass marks a request that the limiter must not count.
const ctxKeyRateBypass = "rate_bypass"

const (
	// sweepEvery is the number of lookups between idle-bucket sweeps.
	sweepEvery = 5000
	// idleTTL is how long a bucket may go unused before it is evicted.
	idleTTL = 10 * time.Minute
)

// KeyByClientIP buckets requests by client IP ("ip:203.0.113.7").
func KeyByClientIP() keyFunc {
	return func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}
}

// KeyByClientIPAndAccess buckets by client IP and splits safe methods
// (GET, HEAD, OPTIONS) from mutating ones ("ip:203.0.113.7:write").
func KeyByClientIPAndAccess() keyFunc {
	return func(c *gin.Context) string {
		key := "ip:" + c.ClientIP()
		if isSafeMethod(c.Request.Method) {
			return key + ":read"
		}
		return key + ":write"
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-key token-bucket limiter. Safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	lookups uint64
}

// NewRateLimiter returns a limiter refilling rps tokens per second up to
// burst (coerced to at least 1), keyed by keyFn.
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   max(burst, 1),
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		ttl:     idleTTL,
	}
}

// limiterFor returns the limiter for key, creating it if absent. Idle
// buckets are swept before the lookup so a stale bucket for key itself is
// replaced rather than refreshed.
func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.lookups++
	if rl.lookups >= sweepEvery {
		rl.sweep(now)
		rl.lookups = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		return b.limiter
	}
	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	return lim
}

// sweep drops buckets idle for at least ttl. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.ttl {
			delete(rl.buckets, k)
		}
	}
}

// retryAfter is the whole number of seconds until one token refills.
func (rl *RateLimiter) retryAfter() string {
	if rl.rps <= 0 {
		return "60"
	}
	return strconv.Itoa(max(int(math.Ceil(1/float64(rl.rps))), 1))
}

// Exempt marks requests whose path starts with one of prefixes so the
// limiter skips them. Install it before Handler.
func Exempt(prefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		for _, pre := range prefixes {
			if pre != "" && strings.HasPrefix(p, pre) {
				c.Set(ctxKeyRateBypass, true)
				break
			}
		}
		c.Next()
	}
}

// IsRateBypass reports whether Exempt or IdempotencyValidator marked this
// request.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the limits. A denied request gets 429 with Retry-After
// and the standard error envelope:
//
//	{ "request_id": "<uuid>", "code": "rate_limited", "message": "rate limit exceeded" }
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) || rl.limiterFor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", rl.retryAfter())
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
