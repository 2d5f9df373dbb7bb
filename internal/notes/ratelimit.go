package notes

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces outbound API calls by a minimum interval. Concurrent
// callers are granted successive slots in arrival order. A zero or negative
// interval disables limiting.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
	now      func() time.Time
}

// NewLimiter builds a limiter with the given minimum interval between calls.
func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval, now: time.Now}
}

// Wait blocks until the caller's slot arrives, returning early if the
// context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return nil
	}

	l.mu.Lock()
	now := l.now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	return sleepWithContext(ctx, slot.Sub(now))
}

// sleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
