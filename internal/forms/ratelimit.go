package forms

import (
	"sync"
	"time"
)

// RateLimiter implements a per-key rolling window rate limiter. Keys are
// client identities (IPs); each form endpoint owns its own limiter with
// its own limit and window.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*window
	done    chan struct{}
	once    sync.Once
}

type window struct {
	attempts []time.Time
}

// NewRateLimiter creates a rate limiter and starts the cleanup goroutine.
func NewRateLimiter(limit int, windowSize time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:   limit,
		window:  windowSize,
		windows: make(map[string]*window),
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	rl.once.Do(func() {
		close(rl.done)
	})
}

// Allow checks if the given key is within the rate limit and counts the
// attempt when it is. Returns true if the request is allowed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	w, ok := rl.windows[key]
	if !ok {
		w = &window{}
		rl.windows[key] = w
	}

	// Prune attempts that rolled out of the window
	valid := w.attempts[:0]
	for _, t := range w.attempts {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	w.attempts = valid

	if len(w.attempts) >= rl.limit {
		return false
	}

	w.attempts = append(w.attempts, now)
	return true
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.purgeStale()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) purgeStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	for key, w := range rl.windows {
		allStale := true
		for _, t := range w.attempts {
			if t.After(cutoff) {
				allStale = false
				break
			}
		}
		if allStale {
			delete(rl.windows, key)
		}
	}
}
