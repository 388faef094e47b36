package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"safeplate/internal/connector"
	"safeplate/internal/connector/mocks"
	"safeplate/internal/ontology"
	"safeplate/internal/ontology/store"
	"safeplate/pkg/platform/audit"
	auditmemory "safeplate/pkg/platform/audit/store/memory"
)

func seedEntries() []ontology.IngredientEntry {
	return []ontology.IngredientEntry{
		{
			CanonicalName: "beef",
			Aliases:       []string{"ground beef", "veal"},
			Source:        ontology.SourceAnimal,
			Species:       "cow",
			Provenance:    ontology.ProvenanceLocal,
			Confidence:    1.0,
		},
		{
			CanonicalName: "milk",
			Aliases:       []string{"whole milk"},
			Source:        ontology.SourceDairy,
			Allergens:     []ontology.Allergen{ontology.AllergenMilk},
			Provenance:    ontology.ProvenanceLocal,
			Confidence:    1.0,
		},
		{
			CanonicalName: "basil",
			Source:        ontology.SourcePlant,
			Provenance:    ontology.ProvenanceLocal,
			Confidence:    1.0,
		},
	}
}

func TestNew_IndexesCanonicalAndAliases(t *testing.T) {
	r := New("test", seedEntries())
	assert.Equal(t, "test", r.Version())
	assert.Equal(t, 6, r.Size())
}

func TestNew_DuplicateKeyKeepsFirstEntry(t *testing.T) {
	seed := []ontology.IngredientEntry{
		{CanonicalName: "gelatin", Source: ontology.SourceAnimal, Species: "cow"},
		{CanonicalName: "agar", Aliases: []string{"gelatin"}, Source: ontology.SourcePlant},
	}
	r := New("test", seed)

	entry := r.Resolve(context.Background(), "gelatin")
	assert.Equal(t, ontology.SourceAnimal, entry.Source)
}

func TestResolve_StaticHit(t *testing.T) {
	r := New("test", seedEntries())

	entry := r.Resolve(context.Background(), "  Beef ")
	assert.Equal(t, "beef", entry.CanonicalName)
	assert.Equal(t, ontology.SourceAnimal, entry.Source)
}

func TestResolve_AliasHit(t *testing.T) {
	r := New("test", seedEntries())

	entry := r.Resolve(context.Background(), "Ground Beef")
	assert.Equal(t, "beef", entry.CanonicalName)
	assert.Equal(t, "cow", entry.Species)
}

func TestResolve_FuzzyHit(t *testing.T) {
	r := New("test", seedEntries())

	entry := r.Resolve(context.Background(), "basik")
	assert.Equal(t, "basil", entry.CanonicalName)
}

func TestResolve_FuzzyNeverCrossesFirstLetter(t *testing.T) {
	r := New("test", seedEntries())

	entry := r.Resolve(context.Background(), "silk")
	assert.True(t, entry.IsUnknown())
}

func TestResolve_DynamicStoreHit(t *testing.T) {
	dyn := store.NewInMemory(0)
	enriched := ontology.IngredientEntry{
		CanonicalName: "dragon fruit",
		Source:        ontology.SourcePlant,
		Provenance:    ontology.ProvenanceUSDA,
		Confidence:    0.9,
	}
	require.NoError(t, dyn.Save(context.Background(), "dragon fruit", enriched))

	r := New("test", seedEntries(), WithDynamicStore(dyn))

	entry := r.Resolve(context.Background(), "Dragon Fruit")
	assert.Equal(t, enriched, entry)
}

func TestResolve_ConnectorEnrichmentPersistsHighConfidence(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	enriched := ontology.IngredientEntry{
		CanonicalName: "dragon fruit",
		Source:        ontology.SourcePlant,
		Provenance:    ontology.ProvenanceUSDA,
		Confidence:    0.9,
	}
	conn.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(enriched, nil)

	dyn := store.NewInMemory(0)
	r := New("test", seedEntries(), WithConnectors(conn), WithDynamicStore(dyn))

	entry := r.Resolve(context.Background(), "dragon fruit")
	assert.Equal(t, enriched, entry)

	saved, err := dyn.Find(context.Background(), "dragon fruit")
	require.NoError(t, err)
	assert.Equal(t, enriched, saved)
}

func TestResolve_PersistedEnrichmentIsAudited(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	enriched := ontology.IngredientEntry{
		CanonicalName: "dragon fruit",
		Source:        ontology.SourcePlant,
		Provenance:    ontology.ProvenanceUSDA,
		Confidence:    0.9,
	}
	weak := ontology.IngredientEntry{
		CanonicalName: "pitaya",
		Source:        ontology.SourcePlant,
		Provenance:    ontology.ProvenanceUSDA,
		Confidence:    0.6,
	}
	conn.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(enriched, nil)
	conn.EXPECT().Lookup(gomock.Any(), "pitaya").Return(weak, nil)

	sink := auditmemory.NewInMemoryStore()
	r := New("test", seedEntries(),
		WithConnectors(conn),
		WithDynamicStore(store.NewInMemory(0)),
		WithAuditPublisher(audit.NewPublisher(sink)),
	)

	r.Resolve(context.Background(), "dragon fruit")
	r.Resolve(context.Background(), "pitaya")

	events, err := sink.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionOntologyEnriched, events[0].Action)
	assert.Equal(t, "dragon fruit", events[0].Ingredient)
	assert.Equal(t, string(ontology.ProvenanceUSDA), events[0].Provenance)
	assert.Equal(t, 0.9, events[0].Confidence)
}

func TestResolve_LowConfidenceResultNotPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	weak := ontology.IngredientEntry{
		CanonicalName: "dragon fruit",
		Source:        ontology.SourcePlant,
		Provenance:    ontology.ProvenanceUSDA,
		Confidence:    0.6,
	}
	conn.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(weak, nil)

	dyn := store.NewInMemory(0)
	r := New("test", seedEntries(), WithConnectors(conn), WithDynamicStore(dyn))

	entry := r.Resolve(context.Background(), "dragon fruit")
	assert.Equal(t, weak, entry)
	assert.Equal(t, 0, dyn.Len())
}

func TestResolve_ConnectorPriorityOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockConnector(ctrl)
	second := mocks.NewMockConnector(ctrl)

	miss := connector.NewError(connector.CategoryNotFound, "first", "no results", nil)
	first.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(ontology.IngredientEntry{}, miss)
	second.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(ontology.IngredientEntry{
		CanonicalName: "dragon fruit",
		Source:        ontology.SourcePlant,
		Confidence:    0.6,
	}, nil)

	r := New("test", seedEntries(), WithConnectors(first, second))

	entry := r.Resolve(context.Background(), "dragon fruit")
	assert.Equal(t, ontology.SourcePlant, entry.Source)
}

func TestResolve_ConnectorFailureDegradesToUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	outage := connector.NewError(connector.CategoryOutage, "usda_fdc", "status 503", nil)
	conn.EXPECT().Lookup(gomock.Any(), "dragon fruit").Return(ontology.IngredientEntry{}, outage)
	conn.EXPECT().ID().Return("usda_fdc")

	r := New("test", seedEntries(), WithConnectors(conn))

	entry := r.Resolve(context.Background(), "dragon fruit")
	assert.True(t, entry.IsUnknown())
	assert.Equal(t, 0.0, entry.Confidence)
}

func TestResolve_SentenceNeverReachesConnectors(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	// No Lookup expectation: a call would fail the test.

	r := New("test", seedEntries(), WithConnectors(conn))

	entry := r.Resolve(context.Background(), "can jain eat onion")
	assert.True(t, entry.IsUnknown())
}

func TestResolve_EmptyNameIsUnknown(t *testing.T) {
	r := New("test", seedEntries())
	assert.True(t, r.Resolve(context.Background(), "   ").IsUnknown())
}

func TestResolve_AllTiersMissIsUnknown(t *testing.T) {
	r := New("test", seedEntries())

	entry := r.Resolve(context.Background(), "zzyzx powder")
	assert.True(t, entry.IsUnknown())
	assert.Equal(t, "zzyzx powder", entry.CanonicalName)
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConnector(ctrl)
	conn.EXPECT().ID().Return("usda_fdc").AnyTimes()
	conn.EXPECT().Health(gomock.Any()).Return(nil)

	r := New("test", seedEntries(), WithConnectors(conn))

	health := r.Health(context.Background())
	require.Len(t, health, 1)
	assert.NoError(t, health["usda_fdc"])
}
