package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := NewMemoryLimiter(time.Minute)
	ctx := context.Background()
	now := time.Now()

	for i := 0; i < 3; i++ {
		res, err := limiter.Allow(ctx, "login:1.2.3.4", 3, now)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i)
		}
		if res.Remaining != 3-(i+1) {
			t.Fatalf("attempt %d: remaining = %d, want %d", i, res.Remaining, 3-(i+1))
		}
	}

	res, err := limiter.Allow(ctx, "login:1.2.3.4", 3, now)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if res.Allowed {
		t.Fatalf("fourth attempt in window should be refused")
	}
	if res.Reset.Before(now) {
		t.Fatalf("reset %v must not be before now %v", res.Reset, now)
	}
}

func TestMemoryLimiter_WindowRollover(t *testing.T) {
	limiter := NewMemoryLimiter(time.Second)
	ctx := context.Background()
	now := time.Now().Truncate(time.Second)

	for i := 0; i < 2; i++ {
		if res, _ := limiter.Allow(ctx, "k", 2, now); !res.Allowed {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if res, _ := limiter.Allow(ctx, "k", 2, now); res.Allowed {
		t.Fatalf("over-limit attempt should be refused")
	}

	later := now.Add(2 * time.Second)
	if res, _ := limiter.Allow(ctx, "k", 2, later); !res.Allowed {
		t.Fatalf("next window should reset the counter")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(time.Minute)
	ctx := context.Background()
	now := time.Now()

	if res, _ := limiter.Allow(ctx, "a", 1, now); !res.Allowed {
		t.Fatalf("first a should be allowed")
	}
	if res, _ := limiter.Allow(ctx, "a", 1, now); res.Allowed {
		t.Fatalf("second a should be refused")
	}
	if res, _ := limiter.Allow(ctx, "b", 1, now); !res.Allowed {
		t.Fatalf("b must not share a's counter")
	}
}

func TestMemoryLimiter_DisabledCases(t *testing.T) {
	limiter := NewMemoryLimiter(time.Minute)
	ctx := context.Background()
	now := time.Now()

	if res, _ := limiter.Allow(ctx, "", 1, now); !res.Allowed {
		t.Fatalf("empty key disables limiting")
	}
	if res, _ := limiter.Allow(ctx, "k", 0, now); !res.Allowed {
		t.Fatalf("non-positive limit disables limiting")
	}
}
