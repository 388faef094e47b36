package connector

import (
	"sync"
	"time"
)

// Limiter enforces a per-connector request budget using a sliding window.
// Outbound food-data APIs are shared public infrastructure; a burst of
// unknown ingredients must not turn into a request storm.
type Limiter struct {
	mu         sync.Mutex
	timestamps []time.Time
	limit      int
	window     time.Duration
}

// NewLimiter allows limit requests per window. A zero or negative limit
// disables limiting.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{limit: limit, window: window}
}

// Allow reports whether one more request fits in the current window and
// records it if so.
func (l *Limiter) Allow() bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)
	kept := l.timestamps[:0]
	for _, ts := range l.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.timestamps = kept

	if len(l.timestamps) >= l.limit {
		return false
	}
	l.timestamps = append(l.timestamps, now)
	return true
}
