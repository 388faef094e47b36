package store

import (
	"context"
	"sync"
	"time"

	"safeplate/internal/ontology"
	"safeplate/pkg/platform/sentinel"
)

type cachedEntry struct {
	entry    ontology.IngredientEntry
	storedAt time.Time
}

// InMemoryStore is an in-memory dynamic ontology store with TTL expiration.
// Suitable for tests and single-instance deployments.
type InMemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]cachedEntry
	cacheTTL time.Duration
}

// NewInMemory creates an in-memory store. A zero TTL disables expiration.
func NewInMemory(cacheTTL time.Duration) *InMemoryStore {
	return &InMemoryStore{
		entries:  make(map[string]cachedEntry),
		cacheTTL: cacheTTL,
	}
}

// Find retrieves a cached entry by normalized key.
// Returns sentinel.ErrNotFound if the entry does not exist or has expired.
func (s *InMemoryStore) Find(_ context.Context, key string) (ontology.IngredientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.entries[key]; ok {
		if s.cacheTTL == 0 || time.Since(cached.storedAt) < s.cacheTTL {
			return cached.entry, nil
		}
	}
	return ontology.IngredientEntry{}, sentinel.ErrNotFound
}

// Save stores an entry keyed by normalized key. Last writer wins.
func (s *InMemoryStore) Save(_ context.Context, key string, entry ontology.IngredientEntry) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cachedEntry{entry: entry, storedAt: time.Now()}
	return nil
}

// Len reports the number of cached entries, including expired ones.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
