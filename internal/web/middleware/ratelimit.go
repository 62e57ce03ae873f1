package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-client token bucket. Buckets for clients that stop
// sending requests expire from the cache after a few idle minutes.
type RateLimiter struct {
	visitors *cache.Cache
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per client, refilled evenly,
// with bursts up to perMinute.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &RateLimiter{
		visitors: cache.New(5*time.Minute, time.Minute),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
	}
}

// Allow consumes a token for key and reports whether one was available.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if v, ok := rl.visitors.Get(key); ok {
		// Touch so active clients keep their bucket
		rl.visitors.SetDefault(key, v)
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.visitors.Add(key, lim, cache.DefaultExpiration); err != nil {
		// Another request created it first
		if v, ok := rl.visitors.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

// retryAfter is how long a client must wait for one token.
func (rl *RateLimiter) retryAfter() int {
	secs := int(time.Duration(float64(time.Second) / float64(rl.limit)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// Middleware rate limits by client IP. Requests over the limit get a
// Retry-After header and are passed to onLimited, which writes the response.
// Run it after TrustedRealIP so proxied clients are told apart.
func (rl *RateLimiter) Middleware(onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter()))
				onLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
