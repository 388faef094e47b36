// Package store provides persistence backends for dynamically discovered
// ingredient entries. The static seed ontology never passes through here;
// only entries enriched from external connectors are cached.
package store

import (
	"context"

	"safeplate/internal/ontology"
)

// DynamicStore persists connector-enriched ingredient entries keyed by
// normalized ingredient key. Implementations must return
// sentinel.ErrNotFound when a key is absent or expired.
type DynamicStore interface {
	Find(ctx context.Context, key string) (ontology.IngredientEntry, error)
	Save(ctx context.Context, key string, entry ontology.IngredientEntry) error
}
