package signal

import (
	"testing"
	"time"
)

func TestRoomRateLimiterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := NewRoomRateLimiter(2, 10*time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two attempts should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third attempt inside the window should be blocked")
	}
	if !rl.Allow("b") {
		t.Fatal("limits are per connection")
	}

	now = now.Add(11 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("attempt after the window should pass")
	}
}

func TestRoomRateLimiterForget(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Hour)
	if !rl.Allow("a") || rl.Allow("a") {
		t.Fatal("limit of one not enforced")
	}
	rl.Forget("a")
	if !rl.Allow("a") {
		t.Fatal("Forget did not reset history")
	}
}
