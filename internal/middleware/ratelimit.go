// Package middleware holds HTTP middleware shared across routes.
package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type window struct {
	count int
	until time.Time
}

// clientLimiter tracks request windows per client key. Expired windows are
// swept on the next locked pass at most once per period, so the map does not
// grow with client churn.
type clientLimiter struct {
	mu        sync.Mutex
	limit     int
	per       time.Duration
	windows   map[string]*window
	lastSweep time.Time
}

func newClientLimiter(limit int, per time.Duration) *clientLimiter {
	return &clientLimiter{
		limit:     limit,
		per:       per,
		windows:   make(map[string]*window),
		lastSweep: time.Now(),
	}
}

// allow records one request for key and reports whether it stays within the
// limit, returning the retry hint in seconds when it does not.
func (l *clientLimiter) allow(key string, now time.Time) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.per {
		for k, w := range l.windows {
			if now.After(w.until) {
				delete(l.windows, k)
			}
		}
		l.lastSweep = now
	}

	win, ok := l.windows[key]
	if !ok || now.After(win.until) {
		win = &window{until: now.Add(l.per)}
		l.windows[key] = win
	}
	if win.count >= l.limit {
		return false, int(win.until.Sub(now).Seconds()) + 1
	}
	win.count++
	return true, 0
}

// PerClient limits each client IP to limit requests per rolling window.
// Exceeding it answers 429 with a Retry-After hint. State is in-memory and
// per-process, which matches the single-node deployment.
func PerClient(limit int, per time.Duration) func(http.Handler) http.Handler {
	limiter := newClientLimiter(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := limiter.allow(clientIP(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"error":"rate limit exceeded, retry in %ds"}`, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first valid X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
