// internal/httpserver/ratelimit.go
//
// Per-client token-bucket rate limiting for the game endpoints.
// One limiter per client IP, created on first request. Limits come
// from RATE_LIMIT_RPS and RATE_LIMIT_BURST.

package httpserver

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterTable hands out one rate.Limiter per client key.
type limiterTable struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      int
	burst    int
}

func newLimiterTable(rps, burst int) *limiterTable {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiterTable{
		limiters: map[string]*rate.Limiter{},
		rps:      rps,
		burst:    burst,
	}
}

// get returns the limiter for key, creating it on first use.
func (t *limiterTable) get(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	if lim, ok := t.limiters[key]; ok {
		return lim
	}
	lim := rate.NewLimiter(rate.Every(time.Second/time.Duration(t.rps)), t.burst)
	t.limiters[key] = lim
	return lim
}

// rateLimitFromEnv builds the rate-limit middleware from env config
// (RATE_LIMIT_RPS default 5, RATE_LIMIT_BURST default 10). Client key
// is the remote IP, which the RealIP middleware has already resolved.
func rateLimitFromEnv() func(http.Handler) http.Handler {
	table := newLimiterTable(envInt("RATE_LIMIT_RPS", 5), envInt("RATE_LIMIT_BURST", 10))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !table.get(key).Allow() {
				jsonError(w, http.StatusTooManyRequests, "Too many requests. Please slow down.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr; falls back to the raw value.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// envInt reads an integer env var with a default.
func envInt(k string, def int) int {
	if v := getEnv(k, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
