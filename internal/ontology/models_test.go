package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngredientEntry_HasAllergen(t *testing.T) {
	entry := IngredientEntry{Allergens: []Allergen{AllergenMilk, AllergenSoy}}
	assert.True(t, entry.HasAllergen(AllergenMilk))
	assert.True(t, entry.HasAllergen(AllergenSoy))
	assert.False(t, entry.HasAllergen(AllergenEgg))
	assert.False(t, IngredientEntry{}.HasAllergen(AllergenMilk))
}

func TestIngredientEntry_MeatOrFish(t *testing.T) {
	beef := IngredientEntry{Source: SourceAnimal, Species: "cow"}
	assert.True(t, beef.MeatOrFish())

	fish := IngredientEntry{Source: SourceAnimal, Species: "fish", Allergens: []Allergen{AllergenFish}}
	assert.True(t, fish.MeatOrFish())

	egg := IngredientEntry{Source: SourceAnimal, Allergens: []Allergen{AllergenEgg}}
	assert.False(t, egg.MeatOrFish())

	honey := IngredientEntry{Source: SourceAnimal, Flags: EntryFlags{InsectDerived: true}}
	assert.False(t, honey.MeatOrFish())

	milk := IngredientEntry{Source: SourceDairy, Allergens: []Allergen{AllergenMilk}}
	assert.False(t, milk.MeatOrFish())
}

func TestIngredientEntry_LandMeat(t *testing.T) {
	assert.True(t, IngredientEntry{Source: SourceAnimal, Species: "cow"}.LandMeat())
	assert.True(t, IngredientEntry{Source: SourceAnimal, Species: "chicken"}.LandMeat())
	assert.False(t, IngredientEntry{Source: SourceAnimal, Species: "fish"}.LandMeat())
	assert.False(t, IngredientEntry{Source: SourceAnimal, Species: "shellfish"}.LandMeat())
	assert.False(t, IngredientEntry{Source: SourcePlant}.LandMeat())
}

func TestIngredientEntry_IsUnknown(t *testing.T) {
	assert.True(t, IngredientEntry{}.IsUnknown())
	assert.True(t, IngredientEntry{Source: SourceUnknown}.IsUnknown())
	assert.False(t, IngredientEntry{Source: SourcePlant}.IsUnknown())
}

func TestUnknown(t *testing.T) {
	entry := Unknown("  Mystery  Powder ")
	assert.Equal(t, "mystery powder", entry.CanonicalName)
	assert.Equal(t, SourceUnknown, entry.Source)
	assert.Equal(t, ProvenanceUnknown, entry.Provenance)
	assert.Equal(t, 0.0, entry.Confidence)
	assert.True(t, entry.IsUnknown())
}

func TestOtherAllergen(t *testing.T) {
	assert.Equal(t, Allergen("other:lupin"), OtherAllergen(" Lupin "))
}

func TestSourceCategory_Valid(t *testing.T) {
	for _, s := range []SourceCategory{SourcePlant, SourceAnimal, SourceDairy, SourceSynthetic, SourceMineral, SourceUnknown} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, SourceCategory("vegetable").Valid())
	assert.False(t, SourceCategory("").Valid())
}
