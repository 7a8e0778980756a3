package middleware

import (
	"net/http"
	"sync"
	"time"

	"carwash_payouts/pkg"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxTrackedKeys is the bucket count above which idle buckets are swept.
const maxTrackedKeys = 10000

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per caller.
//
// A bucket idle for longer than it takes to refill completely behaves like a
// new one, so only such buckets are evicted. Callers still inside their window
// are never forgotten, even past maxTrackedKeys.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    rate.Limit
	burst   int
	idleTTL time.Duration
	maxKeys int
	now     func() time.Time
}

// NewPerMinuteRateLimiter allows perMinute events per caller with a burst of
// the same size. perMinute <= 0 disables limiting.
func NewPerMinuteRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate.Inf,
		maxKeys: maxTrackedKeys,
		now:     time.Now,
	}
	if perMinute > 0 {
		rl.rate = rate.Limit(float64(perMinute) / 60)
		rl.burst = perMinute
		rl.idleTTL = time.Minute
	}
	return rl
}

// Allow reports whether key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.rate == rate.Inf {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		if len(rl.buckets) >= rl.maxKeys {
			rl.sweep(now)
		}
		b = &bucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// sweep drops buckets that have been idle long enough to be full again. Lock
// must be held.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.idleTTL {
			delete(rl.buckets, key)
		}
	}
}

// Handler limits by caller id, falling back to the client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := UserID(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !rl.Allow(key) {
			logrus.WithFields(logrus.Fields{
				"key":    key,
				"path":   c.FullPath(),
				"method": c.Request.Method,
			}).Warn("[http][middleware] rate limit exceeded")
			appErr := pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Next()
	}
}
