package connector

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"safeplate/internal/ontology"
)

// GuardConfig bounds one connector's outbound behavior.
type GuardConfig struct {
	Timeout          time.Duration
	Retry            RetryPolicy
	RateLimit        int           // requests per RateWindow; <=0 disables
	RateWindow       time.Duration
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultGuardConfig returns the production defaults: 10s timeout, three
// attempts, 60 requests/minute, breaker at five consecutive failures.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		Timeout:          10 * time.Second,
		Retry:            DefaultRetryPolicy(),
		RateLimit:        60,
		RateWindow:       time.Minute,
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
	}
}

// Guarded wraps a Connector with the full outbound discipline: rate limit,
// circuit breaker, bounded retries with backoff, and a per-call timeout.
// The registry only ever talks to guarded connectors.
type Guarded struct {
	inner   Connector
	cfg     GuardConfig
	limiter *Limiter
	breaker *Breaker
	logger  *slog.Logger
}

// GuardOption configures a Guarded connector.
type GuardOption func(*Guarded)

// WithLogger sets a logger for failure reporting.
func WithLogger(logger *slog.Logger) GuardOption {
	return func(g *Guarded) { g.logger = logger }
}

// NewGuarded wraps inner with cfg.
func NewGuarded(inner Connector, cfg GuardConfig, opts ...GuardOption) *Guarded {
	g := &Guarded{
		inner:   inner,
		cfg:     cfg,
		limiter: NewLimiter(cfg.RateLimit, cfg.RateWindow),
		breaker: NewBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guarded) ID() string { return g.inner.ID() }

// Health delegates to the wrapped connector under the configured timeout.
func (g *Guarded) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return g.inner.Health(ctx)
}

// Lookup runs the wrapped lookup behind the limiter and breaker, retrying
// retryable failures with exponential backoff. Every attempt carries its own
// timeout so one stuck call cannot exceed the budget.
func (g *Guarded) Lookup(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	id := g.inner.ID()

	if !g.limiter.Allow() {
		countFailure(id, CategoryRateLimited)
		return ontology.IngredientEntry{}, NewError(CategoryRateLimited, id, "local rate limit exceeded", nil)
	}
	if !g.breaker.Allow() {
		countFailure(id, CategoryOutage)
		return ontology.IngredientEntry{}, NewError(CategoryOutage, id, "circuit open", nil)
	}

	start := time.Now()
	defer observeLookup(id, start)

	var entry ontology.IngredientEntry
	err := withRetries(ctx, g.cfg.Retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		var lookupErr error
		entry, lookupErr = g.inner.Lookup(callCtx, key)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && lookupErr != nil {
			lookupErr = NewError(CategoryTimeout, id, "lookup timed out", lookupErr)
		}
		return lookupErr
	})
	if err != nil {
		category := Category(err)
		// A miss is a normal outcome, not an upstream fault.
		if category != CategoryNotFound {
			countFailure(id, category)
			if g.breaker.RecordFailure() {
				breakerOpens.WithLabelValues(id).Inc()
				if g.logger != nil {
					g.logger.Warn("connector circuit opened", "connector", id, "category", string(category))
				}
			}
		}
		return ontology.IngredientEntry{}, err
	}

	g.breaker.RecordSuccess()
	return entry, nil
}
