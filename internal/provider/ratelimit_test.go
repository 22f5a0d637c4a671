package provider

import (
	"errors"
	"testing"
	"time"
)

func TestWindowLimiterAllowsUpToLimit(t *testing.T) {
	l := newWindowLimiter(60, 60*time.Second)

	for i := 0; i < 60; i++ {
		if err := l.allow(); err != nil {
			t.Fatalf("call %d rejected: %v", i+1, err)
		}
	}

	if err := l.allow(); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("call 61 should be rate limited, got %v", err)
	}
}

func TestWindowLimiterResetsAfterWindow(t *testing.T) {
	base := time.Now()
	now := base

	l := newWindowLimiter(2, 60*time.Second)
	l.windowStart = base
	l.now = func() time.Time { return now }

	if err := l.allow(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if err := l.allow(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if err := l.allow(); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third call should be rate limited, got %v", err)
	}

	now = base.Add(60 * time.Second)
	if err := l.allow(); err != nil {
		t.Fatalf("call after window reset: %v", err)
	}
}

func TestWindowLimiterIndependentInstances(t *testing.T) {
	a := newWindowLimiter(1, time.Minute)
	b := newWindowLimiter(1, time.Minute)

	if err := a.allow(); err != nil {
		t.Fatalf("limiter a: %v", err)
	}
	if err := b.allow(); err != nil {
		t.Fatalf("limiter b should have its own budget: %v", err)
	}
}
