package connector

import (
	"sync"
	"time"
)

// Breaker prevents hammering an upstream that is already failing. After a run
// of consecutive failures the circuit opens and lookups are skipped without a
// network call until the cooldown expires.
type Breaker struct {
	mu sync.RWMutex

	threshold int           // consecutive failures to open
	cooldown  time.Duration // how long to stay open

	failures  int
	openUntil time.Time
	isOpen    bool
}

// NewBreaker creates a circuit breaker. Non-positive arguments fall back to
// five failures and a one-minute cooldown.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &Breaker{threshold: threshold, cooldown: cooldown}
}

// Allow reports whether a call may proceed: closed, or open with an expired
// cooldown (half-open probe).
func (b *Breaker) Allow() bool {
	b.mu.RLock()
	if !b.isOpen {
		b.mu.RUnlock()
		return true
	}
	expired := time.Now().After(b.openUntil)
	b.mu.RUnlock()
	return expired
}

// RecordSuccess closes the circuit and resets the failure count.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.isOpen = false
}

// RecordFailure counts a failure and opens the circuit at the threshold.
// Returns true when this call opened it.
func (b *Breaker) RecordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.failures < b.threshold {
		return false
	}
	opened := !b.isOpen
	b.isOpen = true
	b.openUntil = time.Now().Add(b.cooldown)
	return opened
}

// IsOpen reports the current circuit state.
func (b *Breaker) IsOpen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.isOpen
}
