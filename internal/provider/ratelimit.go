package provider

import (
	"sync"
	"time"
)

// windowLimiter counts calls within a fixed window. The counter resets when
// the window has elapsed since the last reset; a call at or past the limit
// fails with ErrRateLimited before any request goes out. Each client owns
// its limiter instance, so independent clients never interfere.
type windowLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
	now         func() time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	return &windowLimiter{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
		now:         time.Now,
	}
}

// allow consumes one slot or returns ErrRateLimited.
func (l *windowLimiter) allow() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.windowStart) >= l.window {
		l.count = 0
		l.windowStart = now
	}
	if l.count >= l.limit {
		return ErrRateLimited
	}
	l.count++
	return nil
}
