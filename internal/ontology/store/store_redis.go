package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"safeplate/internal/ontology"
	"safeplate/pkg/platform/sentinel"
)

var (
	findDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "safeplate_ontology_store_find_duration_ms",
		Help:    "Latency of dynamic ontology lookups in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for enriched ingredient entries
	entryKeyPrefix = "ontology:entry:"
)

// RedisStore is a Redis-backed dynamic ontology store.
// This is the production-recommended implementation for distributed
// deployments where multiple instances share enriched entries.
type RedisStore struct {
	client   *redis.Client
	cacheTTL time.Duration
}

// RedisStoreOption configures a RedisStore instance.
type RedisStoreOption func(*RedisStore)

// WithRedisTTL overrides the default entry TTL.
func WithRedisTTL(ttl time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewRedis constructs a Redis-backed dynamic ontology store.
func NewRedis(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:   client,
		cacheTTL: 24 * time.Hour,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Find retrieves a cached entry by normalized key.
// Returns sentinel.ErrNotFound if the key does not exist or has expired.
func (s *RedisStore) Find(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	start := time.Now()
	defer func() {
		findDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	raw, err := s.client.Get(ctx, entryKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ontology.IngredientEntry{}, sentinel.ErrNotFound
	}
	if err != nil {
		return ontology.IngredientEntry{}, fmt.Errorf("find ontology entry: %w", err)
	}
	var entry ontology.IngredientEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return ontology.IngredientEntry{}, fmt.Errorf("decode ontology entry: %w", err)
	}
	return entry, nil
}

// Save stores an entry with TTL. Uses SET with expiry so a concurrent
// writer simply overwrites; last writer wins.
func (s *RedisStore) Save(ctx context.Context, key string, entry ontology.IngredientEntry) error {
	if key == "" {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode ontology entry: %w", err)
	}
	if err := s.client.Set(ctx, entryKeyPrefix+key, raw, s.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save ontology entry: %w", err)
	}
	return nil
}

// Close is a no-op; the client lifecycle is managed externally.
func (s *RedisStore) Close() {}
