package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"safeplate/internal/ontology"
	"safeplate/pkg/platform/sentinel"
)

// PostgresStore persists enriched ingredient entries in PostgreSQL.
// Entries are stored as JSONB so the schema survives ontology shape changes.
type PostgresStore struct {
	pool     *pgxpool.Pool
	cacheTTL time.Duration
}

// PostgresStoreOption configures a PostgresStore instance.
type PostgresStoreOption func(*PostgresStore)

// WithPostgresTTL overrides the default entry TTL.
func WithPostgresTTL(ttl time.Duration) PostgresStoreOption {
	return func(s *PostgresStore) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed dynamic ontology store.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{
		pool:     pool,
		cacheTTL: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Schema is the DDL required by PostgresStore. Applied by migrations in
// production; integration tests execute it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS ontology_entries (
    entry_key  TEXT PRIMARY KEY,
    entry      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Find retrieves a cached entry by normalized key.
// Returns sentinel.ErrNotFound if the entry does not exist or is stale.
func (s *PostgresStore) Find(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	cutoff := time.Now().Add(-s.cacheTTL)
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT entry FROM ontology_entries WHERE entry_key = $1 AND updated_at > $2`,
		key, cutoff,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
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

// Save upserts an entry keyed by normalized key. Last writer wins.
func (s *PostgresStore) Save(ctx context.Context, key string, entry ontology.IngredientEntry) error {
	if key == "" {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode ontology entry: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO ontology_entries (entry_key, entry, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (entry_key) DO UPDATE SET
			entry = EXCLUDED.entry,
			updated_at = EXCLUDED.updated_at
	`, key, raw)
	if err != nil {
		return fmt.Errorf("save ontology entry: %w", err)
	}
	return nil
}

// RemoveStale deletes entries older than the cache TTL.
func (s *PostgresStore) RemoveStale(ctx context.Context) error {
	cutoff := time.Now().Add(-s.cacheTTL)
	_, err := s.pool.Exec(ctx, `DELETE FROM ontology_entries WHERE updated_at <= $1`, cutoff)
	if err != nil {
		return fmt.Errorf("remove stale ontology entries: %w", err)
	}
	return nil
}
