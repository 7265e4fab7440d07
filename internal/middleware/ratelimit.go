package middleware

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter caps how many requests a single remote address may make within
// a fixed window. Counts reset when the window since the first request in it
// elapses.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*requestWindow
	limit   int
	period  time.Duration
}

type requestWindow struct {
	count   int
	started time.Time
}

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*requestWindow),
		limit:   limit,
		period:  period,
	}
	go rl.sweep()
	return rl
}

// sweep drops windows that have gone quiet so the map does not grow with
// every address ever seen.
func (rl *RateLimiter) sweep() {
	for {
		time.Sleep(rl.period)
		rl.mu.Lock()
		for addr, w := range rl.windows {
			if time.Since(w.started) > rl.period {
				delete(rl.windows, addr)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[addr]
	if !ok || time.Since(w.started) > rl.period {
		rl.windows[addr] = &requestWindow{count: 1, started: time.Now()}
		return true
	}

	w.count++
	return w.count <= rl.limit
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
