package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	version, entries, err := LoadSeed()
	require.NoError(t, err)
	assert.Equal(t, "2026.08.1", version)
	assert.NotEmpty(t, entries)

	for _, e := range entries {
		assert.NotEmpty(t, e.CanonicalName)
		assert.True(t, e.Source.Valid(), "entry %q", e.CanonicalName)
		assert.Equal(t, ProvenanceLocal, e.Provenance, "entry %q", e.CanonicalName)
		assert.Equal(t, 1.0, e.Confidence, "entry %q", e.CanonicalName)
	}
}

func TestLoadSeed_ContainsCoreEntries(t *testing.T) {
	_, entries, err := LoadSeed()
	require.NoError(t, err)

	byName := make(map[string]IngredientEntry, len(entries))
	for _, e := range entries {
		byName[e.CanonicalName] = e
	}

	beef, ok := byName["beef"]
	require.True(t, ok)
	assert.Equal(t, SourceAnimal, beef.Source)
	assert.Equal(t, "cow", beef.Species)
	assert.Contains(t, beef.Aliases, "ground beef")

	pork, ok := byName["pork"]
	require.True(t, ok)
	assert.Equal(t, "pig", pork.Species)

	onion, ok := byName["onion"]
	require.True(t, ok)
	assert.Equal(t, SourcePlant, onion.Source)
	assert.True(t, onion.Flags.Onion)
	assert.True(t, onion.Flags.RootVegetable)
}
