package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeplate/internal/ontology"
)

// scriptedConnector returns canned results in order, repeating the last one.
type scriptedConnector struct {
	id      string
	results []scriptedResult
	calls   int
}

type scriptedResult struct {
	entry ontology.IngredientEntry
	err   error
}

func (s *scriptedConnector) ID() string { return s.id }

func (s *scriptedConnector) Lookup(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	r := s.results[i]
	return r.entry, r.err
}

func (s *scriptedConnector) Health(ctx context.Context) error { return nil }

func fastGuard() GuardConfig {
	return GuardConfig{
		Timeout:          time.Second,
		Retry:            RetryPolicy{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
		RateLimit:        0,
		RateWindow:       time.Minute,
		BreakerThreshold: 2,
		BreakerCooldown:  time.Minute,
	}
}

func TestGuarded_PassesThroughSuccess(t *testing.T) {
	inner := &scriptedConnector{id: "stub", results: []scriptedResult{
		{entry: ontology.IngredientEntry{CanonicalName: "basil", Source: ontology.SourcePlant, Confidence: 0.9}},
	}}
	g := NewGuarded(inner, fastGuard())

	entry, err := g.Lookup(context.Background(), "basil")
	require.NoError(t, err)
	assert.Equal(t, "basil", entry.CanonicalName)
	assert.Equal(t, 1, inner.calls)
}

func TestGuarded_RetriesThenSucceeds(t *testing.T) {
	inner := &scriptedConnector{id: "stub", results: []scriptedResult{
		{err: NewError(CategoryOutage, "stub", "down", nil)},
		{entry: ontology.IngredientEntry{CanonicalName: "basil", Source: ontology.SourcePlant, Confidence: 0.9}},
	}}
	g := NewGuarded(inner, fastGuard())

	entry, err := g.Lookup(context.Background(), "basil")
	require.NoError(t, err)
	assert.Equal(t, "basil", entry.CanonicalName)
	assert.Equal(t, 2, inner.calls)
}

func TestGuarded_NotFoundDoesNotTripBreaker(t *testing.T) {
	inner := &scriptedConnector{id: "stub", results: []scriptedResult{
		{err: NewError(CategoryNotFound, "stub", "miss", nil)},
	}}
	g := NewGuarded(inner, fastGuard())

	for i := 0; i < 5; i++ {
		_, err := g.Lookup(context.Background(), "nonesuch")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	}
	// Misses never open the circuit; every call reached the connector.
	assert.Equal(t, 5, inner.calls)
}

func TestGuarded_BreakerOpensAndShortCircuits(t *testing.T) {
	inner := &scriptedConnector{id: "stub", results: []scriptedResult{
		{err: NewError(CategoryBadData, "stub", "garbage", nil)},
	}}
	g := NewGuarded(inner, fastGuard())

	// Two failing lookups reach the threshold.
	_, err := g.Lookup(context.Background(), "a")
	require.Error(t, err)
	_, err = g.Lookup(context.Background(), "b")
	require.Error(t, err)

	callsBefore := inner.calls
	_, err = g.Lookup(context.Background(), "c")
	require.Error(t, err)
	assert.Equal(t, CategoryOutage, Category(err))
	assert.Equal(t, callsBefore, inner.calls, "open circuit must not call the connector")
}

func TestGuarded_RateLimitRejectsLocally(t *testing.T) {
	inner := &scriptedConnector{id: "stub", results: []scriptedResult{
		{entry: ontology.IngredientEntry{CanonicalName: "basil", Source: ontology.SourcePlant, Confidence: 0.9}},
	}}
	cfg := fastGuard()
	cfg.RateLimit = 1
	g := NewGuarded(inner, cfg)

	_, err := g.Lookup(context.Background(), "basil")
	require.NoError(t, err)

	_, err = g.Lookup(context.Background(), "basil")
	require.Error(t, err)
	assert.Equal(t, CategoryRateLimited, Category(err))
	assert.Equal(t, 1, inner.calls)
}
