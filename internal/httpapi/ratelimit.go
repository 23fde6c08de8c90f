package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// rateLimiter is a fixed-window counter per client. The window resets fully
// when it expires, so a burst right across the boundary can see up to 2x the
// limit; that trade is acceptable for an abuse guard and keeps state tiny.
type rateLimiter struct {
	mu       sync.Mutex
	requests int
	window   time.Duration
	clients  map[string]*windowCount

	// now is replaceable in tests.
	now func() time.Time
}

type windowCount struct {
	start time.Time
	count int
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests: requests,
		window:   window,
		clients:  make(map[string]*windowCount),
		now:      time.Now,
	}
}

// allow reports whether client may proceed and counts the attempt.
func (rl *rateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	wc, ok := rl.clients[client]
	if !ok || now.Sub(wc.start) >= rl.window {
		rl.clients[client] = &windowCount{start: now, count: 1}
		return true
	}
	wc.count++
	return wc.count <= rl.requests
}

// clientKey identifies the caller for rate limiting: the first entry of
// X-Forwarded-For when present, otherwise a fixed local key. RemoteAddr is
// not used because the gateway normally sits behind a reverse proxy.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	return "localhost"
}

// middleware rejects over-limit requests with 429.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := clientKey(r)
		if !rl.allow(client) {
			rateLimitedTotal.WithLabelValues(client).Inc()
			writeJSONError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded. Maximum %d requests per %d seconds.",
					rl.requests, int(rl.window.Seconds())))
			return
		}
		next.ServeHTTP(w, r)
	})
}
