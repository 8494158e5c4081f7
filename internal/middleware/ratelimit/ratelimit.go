// Package ratelimit throttles credential endpoints per client address.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	window    = time.Minute
	idleAfter = 10 * time.Minute
)

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Decision is the outcome of one Take.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed one-minute windows.
type Limiter struct {
	limit    int
	sweep    time.Duration
	now      func() time.Time
	rejected atomic.Int64

	mu      sync.Mutex
	windows map[string]*counter

	done     chan struct{}
	stopOnce sync.Once
}

type counter struct {
	opened   time.Time
	lastSeen time.Time
	hits     int
}

// NewLimiter starts a limiter and its sweeper goroutine. Call Stop to
// release it.
func NewLimiter(cfg Config) *Limiter {
	def := DefaultConfig()
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = def.RequestsPerMinute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	l := &Limiter{
		limit:   cfg.RequestsPerMinute,
		sweep:   cfg.CleanupInterval,
		now:     time.Now,
		windows: make(map[string]*counter),
		done:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Take records one request for key.
func (l *Limiter) Take(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.windows[key]
	if !ok || now.Sub(c.opened) >= window {
		c = &counter{opened: now}
		l.windows[key] = c
	}
	c.hits++
	c.lastSeen = now

	if c.hits > l.limit {
		l.rejected.Add(1)
		return Decision{RetryAfter: c.opened.Add(window).Sub(now)}
	}
	return Decision{Allowed: true, Remaining: l.limit - c.hits}
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.dropIdle()
		case <-l.done:
			return
		}
	}
}

// dropIdle forgets keys with no request for idleAfter.
func (l *Limiter) dropIdle() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idleAfter)
	for key, c := range l.windows {
		if c.lastSeen.Before(cutoff) {
			delete(l.windows, key)
		}
	}
}

// tracked returns the number of keys with a live window.
func (l *Limiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// Rejected returns how many requests were refused since start.
func (l *Limiter) Rejected() int64 {
	return l.rejected.Load()
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Middleware limits requests keyed by keyOf. onLimit writes the rejection
// body; when nil a plain-text 429 is sent.
func (l *Limiter) Middleware(keyOf func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := l.Take(keyOf(r))
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
