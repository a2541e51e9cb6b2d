package service

import (
	"testing"
	"time"
)

func TestLoginRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("user@example.com") {
			t.Fatalf("expected attempt %d to be allowed", i+1)
		}
	}
	if limiter.Allow("user@example.com") {
		t.Fatalf("expected attempt over the limit to be denied")
	}
}

func TestLoginRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewLoginRateLimiter(time.Minute, 1)

	if !limiter.Allow("a@example.com") {
		t.Fatalf("expected first key to be allowed")
	}
	if !limiter.Allow("b@example.com") {
		t.Fatalf("expected second key to be allowed")
	}
	if limiter.Allow("a@example.com") {
		t.Fatalf("expected first key to be limited")
	}
}
