// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// maxKeys bounds how many distinct clients are tracked at once.
const maxKeys = 10000

// Limiter is a per-key token bucket. It is safe for concurrent use.
// Idle keys are evicted after the configured idle time, so a returning
// client starts with a full bucket.
type Limiter struct {
	buckets *expirable.LRU[string, *rate.Limiter]
	every   rate.Limit
	burst   int
}

// New creates a limiter allowing limit requests per duration for each key,
// with bursts of up to limit.
func New(limit int, duration time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	return &Limiter{
		buckets: expirable.NewLRU[string, *rate.Limiter](maxKeys, nil, 2*duration),
		every:   rate.Every(duration / time.Duration(limit)),
		burst:   limit,
	}
}

// PerMinute is shorthand for New(n, time.Minute).
func PerMinute(n int) *Limiter {
	return New(n, time.Minute)
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	b := rate.NewLimiter(l.every, l.burst)
	l.buckets.Add(key, b)
	return b
}

// Allow reports whether a request for key may proceed, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	return l.bucket(key).Allow()
}

// Remaining returns the whole tokens currently available for key.
func (l *Limiter) Remaining(key string) int {
	b, ok := l.buckets.Peek(key)
	if !ok {
		return l.burst
	}
	n := int(b.Tokens())
	if n < 0 {
		return 0
	}
	return n
}

// Reset forgets key, restoring its full burst.
func (l *Limiter) Reset(key string) {
	l.buckets.Remove(key)
}

// AllowRequest applies the limiter to the request's client IP.
func (l *Limiter) AllowRequest(r *http.Request) bool {
	return l.Allow(ClientIP(r))
}

var trustProxyHeaders atomic.Bool

// SetTrustProxyHeaders controls whether ClientIP reads X-Forwarded-For and
// X-Real-IP. Enable it only when the app sits behind a proxy that sets them.
// Call during startup before handlers are registered.
func SetTrustProxyHeaders(trust bool) {
	trustProxyHeaders.Store(trust)
}

// ClientIP extracts the client IP from an HTTP request.
// When proxy headers are trusted it checks X-Forwarded-For and X-Real-IP
// first; otherwise, and as the fallback, it uses RemoteAddr.
func ClientIP(r *http.Request) string {
	if trustProxyHeaders.Load() {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}
	return ip
}
