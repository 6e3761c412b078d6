package guard

import (
	"testing"
	"time"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	rl := NewRateLimiter(10, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Errorf("Allow() call %d = false, want true within burst", i+1)
		}
	}
	if rl.Allow() {
		t.Error("Allow() = true past burst, want false")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(100, 1)

	if !rl.Allow() {
		t.Fatal("Allow() = false on fresh limiter")
	}
	if rl.Allow() {
		t.Fatal("Allow() = true with empty bucket")
	}

	// 100/s refills a token in 10ms.
	time.Sleep(30 * time.Millisecond)
	if !rl.Allow() {
		t.Error("Allow() = false after refill window")
	}
}

func TestRateLimiter_TokensCappedAtBurst(t *testing.T) {
	rl := NewRateLimiter(1000, 5)

	time.Sleep(20 * time.Millisecond)
	if got := rl.Tokens(); got > 5 {
		t.Errorf("Tokens() = %g, want <= burst of 5", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	if rl.rate != 10 {
		t.Errorf("rate = %g, want 10", rl.rate)
	}
	if rl.burst != 10 {
		t.Errorf("burst = %g, want 10", rl.burst)
	}
}
