// Package registry resolves ingredient names to ontology entries through a
// tiered pipeline: the embedded static ontology, a bounded fuzzy match over
// its keys, the dynamic store of previously enriched entries, and finally the
// external connectors in priority order. Resolution never fails; when every
// tier misses the caller gets an explicit Unknown entry.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"safeplate/internal/connector"
	"safeplate/internal/ontology"
	"safeplate/internal/ontology/store"
	"safeplate/pkg/platform/audit"
	"safeplate/pkg/platform/sentinel"
)

// Entries below this confidence stay request-scoped; persisting a guess
// would let one weak match poison every later lookup of the same key.
const persistThreshold = 0.9

// Registry is the ingredient resolution service. Safe for concurrent use.
type Registry struct {
	version    string
	static     map[string]ontology.IngredientEntry
	staticKeys []string
	dynamic    store.DynamicStore
	connectors []connector.Connector
	fuzzy      ontology.FuzzyConfig
	logger     *slog.Logger
	audit      *audit.Publisher
}

// Option configures a Registry.
type Option func(*Registry)

// WithDynamicStore attaches a store for connector-enriched entries.
func WithDynamicStore(s store.DynamicStore) Option {
	return func(r *Registry) { r.dynamic = s }
}

// WithConnectors sets the external connectors, highest priority first.
func WithConnectors(conns ...connector.Connector) Option {
	return func(r *Registry) { r.connectors = conns }
}

// WithFuzzyConfig overrides the fuzzy matching tolerances.
func WithFuzzyConfig(cfg ontology.FuzzyConfig) Option {
	return func(r *Registry) { r.fuzzy = cfg }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithAuditPublisher records an event each time a connector-enriched entry is
// persisted to the dynamic store.
func WithAuditPublisher(p *audit.Publisher) Option {
	return func(r *Registry) { r.audit = p }
}

// New builds a Registry over the given seed entries. Canonical names and
// aliases are indexed under their normalized keys; a duplicate key keeps the
// first entry seen so curated order is authoritative.
func New(version string, seed []ontology.IngredientEntry, opts ...Option) *Registry {
	r := &Registry{
		version: version,
		static:  make(map[string]ontology.IngredientEntry, len(seed)*2),
		fuzzy:   ontology.DefaultFuzzyConfig(),
		logger:  slog.Default(),
	}
	for _, entry := range seed {
		keys := append([]string{entry.CanonicalName}, entry.Aliases...)
		for _, k := range keys {
			nk := ontology.NormalizeKey(k)
			if nk == "" {
				continue
			}
			if _, exists := r.static[nk]; !exists {
				r.static[nk] = entry
				r.staticKeys = append(r.staticKeys, nk)
			}
		}
	}
	sort.Strings(r.staticKeys)
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Version returns the seed ontology version string.
func (r *Registry) Version() string { return r.version }

// Size returns the number of indexed static keys.
func (r *Registry) Size() int { return len(r.staticKeys) }

// Resolve maps a raw ingredient name to its ontology entry. The result is
// never an error and never empty: unresolvable names come back as an Unknown
// entry with zero confidence.
func (r *Registry) Resolve(ctx context.Context, name string) ontology.IngredientEntry {
	start := time.Now()
	key := ontology.NormalizeKey(name)
	if key == "" {
		observeResolve(tierUnknown, start)
		return ontology.Unknown(name)
	}

	if entry, ok := r.static[key]; ok {
		observeResolve(tierStatic, start)
		return entry
	}

	if match := ontology.FuzzyMatch(key, r.staticKeys, r.fuzzy); match != "" {
		observeResolve(tierFuzzy, start)
		return r.static[match]
	}

	if r.dynamic != nil {
		if entry, err := r.dynamic.Find(ctx, key); err == nil {
			observeResolve(tierDynamic, start)
			return entry
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.Warn("dynamic ontology lookup failed", "key", key, "error", err)
		}
	}

	// Sentences and questions stop here; they are not ingredient names and
	// must never become external queries.
	if !ontology.ValidIngredientInput(key) {
		observeResolve(tierUnknown, start)
		return ontology.Unknown(name)
	}

	if entry, ok := r.enrich(ctx, key); ok {
		observeResolve(tierConnector, start)
		return entry
	}

	observeResolve(tierUnknown, start)
	return ontology.Unknown(name)
}

// enrich queries the connectors in priority order and returns the first hit.
// High-confidence results are persisted to the dynamic store; weaker ones are
// returned for this request only.
func (r *Registry) enrich(ctx context.Context, key string) (ontology.IngredientEntry, bool) {
	for _, conn := range r.connectors {
		entry, err := conn.Lookup(ctx, key)
		if err != nil {
			if !connector.IsNotFound(err) {
				r.logger.Warn("connector lookup failed",
					"connector", conn.ID(), "key", key, "category", string(connector.Category(err)))
			}
			continue
		}
		if entry.IsUnknown() {
			continue
		}
		if r.dynamic != nil && entry.Confidence >= persistThreshold {
			if err := r.dynamic.Save(ctx, key, entry); err != nil {
				r.logger.Warn("dynamic ontology save failed", "key", key, "error", err)
			} else if r.audit != nil {
				event := audit.Event{
					Action:     audit.ActionOntologyEnriched,
					Ingredient: key,
					Provenance: string(entry.Provenance),
					Confidence: entry.Confidence,
				}
				if err := r.audit.Emit(ctx, event); err != nil {
					r.logger.Warn("audit emit failed", "action", string(event.Action), "error", err)
				}
			}
		}
		return entry, true
	}
	return ontology.IngredientEntry{}, false
}

// Health reports connector availability, keyed by connector ID. A registry
// with no connectors is vacuously healthy.
func (r *Registry) Health(ctx context.Context) map[string]error {
	out := make(map[string]error, len(r.connectors))
	for _, conn := range r.connectors {
		out[conn.ID()] = conn.Health(ctx)
	}
	return out
}
