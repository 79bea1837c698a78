package forms

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, 10*time.Minute)
	defer rl.Close()

	key := "203.0.113.7"

	// First 3 allowed, 4th denied
	for i := 0; i < 3; i++ {
		if !rl.Allow(key) {
			t.Errorf("attempt %d should be allowed", i+1)
		}
	}
	if rl.Allow(key) {
		t.Error("4th attempt should be denied")
	}

	// Different key unaffected
	if !rl.Allow("203.0.113.8") {
		t.Error("different key should be allowed")
	}
}

func TestRateLimiterWindowRolls(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Minute)
	defer rl.Close()

	key := "203.0.113.7"
	rl.Allow(key)
	rl.Allow(key)
	if rl.Allow(key) {
		t.Fatal("3rd attempt should be denied")
	}

	// Age one attempt out of the window: one slot frees up
	rl.mu.Lock()
	rl.windows[key].attempts[0] = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	if !rl.Allow(key) {
		t.Error("attempt should be allowed after the oldest rolls out")
	}
	if rl.Allow(key) {
		t.Error("window should be full again")
	}
}

func TestRateLimiterPurge(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Close()

	rl.Allow("203.0.113.7")

	rl.mu.Lock()
	rl.windows["203.0.113.7"].attempts = nil
	rl.mu.Unlock()

	rl.purgeStale()

	rl.mu.Lock()
	_, exists := rl.windows["203.0.113.7"]
	rl.mu.Unlock()

	if exists {
		t.Error("stale window should have been purged")
	}
}
