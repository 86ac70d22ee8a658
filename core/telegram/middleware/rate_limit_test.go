package middleware

import (
	"testing"
	"time"
)

func TestFloodLimiterDeniesAtThreshold(t *testing.T) {
	l := NewFloodLimiter(10*time.Second, 10*time.Second, 5)
	now := time.Unix(1000, 0)

	for i := 0; i < 4; i++ {
		if !l.Allow(7, now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("event %d should be allowed", i+1)
		}
	}
	if l.Allow(7, now.Add(4*time.Second)) {
		t.Fatal("5th event within the window should be denied")
	}
}

func TestFloodLimiterBlockExpires(t *testing.T) {
	l := NewFloodLimiter(10*time.Second, 10*time.Second, 5)
	now := time.Unix(1000, 0)

	for i := 0; i < 5; i++ {
		l.Allow(7, now)
	}
	blockedAt := now

	until, ok := l.BlockedUntil(7)
	if !ok {
		t.Fatal("user should be blocked")
	}
	if want := blockedAt.Add(10 * time.Second); !until.Equal(want) {
		t.Fatalf("block expires at %v, want %v", until, want)
	}

	if l.Allow(7, blockedAt.Add(9*time.Second)) {
		t.Fatal("still inside the block")
	}
	if !l.Allow(7, blockedAt.Add(10*time.Second)) {
		t.Fatal("block elapsed, event should be allowed")
	}
	if _, ok := l.BlockedUntil(7); ok {
		t.Fatal("expired block should be removed")
	}
}

func TestFloodLimiterWindowSlides(t *testing.T) {
	l := NewFloodLimiter(10*time.Second, 10*time.Second, 5)
	now := time.Unix(1000, 0)

	// Four events, then wait past the window: the old events no longer count.
	for i := 0; i < 4; i++ {
		if !l.Allow(7, now.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("event %d should be allowed", i+1)
		}
	}
	later := now.Add(15 * time.Second)
	for i := 0; i < 4; i++ {
		if !l.Allow(7, later.Add(time.Duration(i)*time.Second)) {
			t.Fatalf("event %d after the window should be allowed", i+1)
		}
	}
}

func TestFloodLimiterPerUser(t *testing.T) {
	l := NewFloodLimiter(10*time.Second, 10*time.Second, 5)
	now := time.Unix(1000, 0)

	for i := 0; i < 5; i++ {
		l.Allow(1, now)
	}
	if l.Allow(1, now) {
		t.Fatal("user 1 should be blocked")
	}
	if !l.Allow(2, now) {
		t.Fatal("user 2 has its own window")
	}
}

func TestFloodLimiterBlockDeniesWithoutExtending(t *testing.T) {
	l := NewFloodLimiter(10*time.Second, 10*time.Second, 5)
	now := time.Unix(1000, 0)

	for i := 0; i < 5; i++ {
		l.Allow(7, now)
	}
	first, _ := l.BlockedUntil(7)

	// Hammering while blocked must not push the expiry further out.
	l.Allow(7, now.Add(5*time.Second))
	second, _ := l.BlockedUntil(7)
	if !first.Equal(second) {
		t.Fatalf("block extended from %v to %v", first, second)
	}
}
