// Package connector adapts external food-data sources into a single lookup
// capability the ontology registry can query on a local miss. Each connector
// carries its own timeout, retry policy, rate limit, and circuit breaker so a
// slow or dead upstream degrades that one source, never the whole resolve.
package connector

import (
	"context"

	"safeplate/internal/ontology"
)

// Connector resolves an ingredient name to structured attributes using one
// external backend.
type Connector interface {
	// ID returns a unique identifier for this connector instance.
	ID() string

	// Lookup resolves a normalized ingredient key. A miss is reported as an
	// *Error with CategoryNotFound, not an empty entry.
	Lookup(ctx context.Context, key string) (ontology.IngredientEntry, error)

	// Health checks whether the upstream is reachable.
	Health(ctx context.Context) error
}
