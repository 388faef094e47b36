// Package ontology maps ingredient names to the structured attributes the
// compliance engine evaluates. Lookups never fail: an unresolvable name
// produces an explicit Unknown entry that downstream rules must treat as
// "cannot guarantee safety".
package ontology

import "strings"

// SourceCategory is the biological origin of an ingredient.
type SourceCategory string

const (
	SourcePlant     SourceCategory = "plant"
	SourceAnimal    SourceCategory = "animal"
	SourceDairy     SourceCategory = "dairy"
	SourceSynthetic SourceCategory = "synthetic"
	SourceMineral   SourceCategory = "mineral"
	SourceUnknown   SourceCategory = "unknown"
)

// Valid reports whether s is a known category.
func (s SourceCategory) Valid() bool {
	switch s {
	case SourcePlant, SourceAnimal, SourceDairy, SourceSynthetic, SourceMineral, SourceUnknown:
		return true
	}
	return false
}

// Allergen is a regulated allergen class. The set is open-ended: labels
// outside the core list are carried as "other:<label>".
type Allergen string

const (
	AllergenPeanuts   Allergen = "peanuts"
	AllergenTreeNuts  Allergen = "tree_nuts"
	AllergenMilk      Allergen = "milk"
	AllergenEgg       Allergen = "egg"
	AllergenWheat     Allergen = "wheat"
	AllergenSoy       Allergen = "soy"
	AllergenFish      Allergen = "fish"
	AllergenShellfish Allergen = "shellfish"
	AllergenSesame    Allergen = "sesame"
	AllergenMustard   Allergen = "mustard"
	AllergenCelery    Allergen = "celery"
)

// OtherAllergen builds an open-ended allergen tag from a free-form label.
func OtherAllergen(label string) Allergen {
	return Allergen("other:" + strings.ToLower(strings.TrimSpace(label)))
}

// Provenance records which source classified an ingredient. It weights the
// confidence callers place in an entry.
type Provenance string

const (
	ProvenanceLocal         Provenance = "local_ontology"
	ProvenanceUSDA          Provenance = "usda_fdc"
	ProvenanceOpenFoodFacts Provenance = "open_food_facts"
	ProvenanceLLM           Provenance = "llm_inferred"
	ProvenanceUnknown       Provenance = "unknown"
)

// EntryFlags carries the attribute bits religious and lifestyle restrictions
// need beyond the source category. A plant-sourced onion is still forbidden
// under Jain rules; the category alone cannot express that.
type EntryFlags struct {
	RootVegetable bool `json:"root_vegetable,omitempty"`
	Onion         bool `json:"onion,omitempty"`
	Garlic        bool `json:"garlic,omitempty"`
	Fermented     bool `json:"fermented,omitempty"`
	Fungal        bool `json:"fungal,omitempty"`
	InsectDerived bool `json:"insect_derived,omitempty"`
}

// IngredientEntry is the normalized record for one ingredient. Immutable once
// returned from the registry; callers must not mutate shared slices.
type IngredientEntry struct {
	CanonicalName  string         `json:"canonical_name"`
	Aliases        []string       `json:"aliases,omitempty"`
	Source         SourceCategory `json:"source_category"`
	Species        string         `json:"species,omitempty"`
	Allergens      []Allergen     `json:"allergen_tags,omitempty"`
	AlcoholContent float64        `json:"alcohol_content,omitempty"`
	Flags          EntryFlags     `json:"flags,omitempty"`
	Provenance     Provenance     `json:"provenance"`
	Confidence     float64        `json:"confidence"`
}

// HasAllergen reports whether the entry carries the given allergen tag.
func (e IngredientEntry) HasAllergen(a Allergen) bool {
	for _, tag := range e.Allergens {
		if tag == a {
			return true
		}
	}
	return false
}

// IsUnknown reports whether the entry could not be classified.
func (e IngredientEntry) IsUnknown() bool {
	return e.Source == SourceUnknown || e.Source == ""
}

// MeatOrFish reports whether the entry is animal-derived flesh: animal origin
// that is not egg and not insect-derived (honey, carmine). Dairy is its own
// category. Mirrors how vegetarian-family restrictions draw the line.
func (e IngredientEntry) MeatOrFish() bool {
	return e.Source == SourceAnimal && !e.HasAllergen(AllergenEgg) && !e.Flags.InsectDerived
}

// LandMeat reports meat from land animals; fish and shellfish are excluded so
// pescatarian rules can target it directly.
func (e IngredientEntry) LandMeat() bool {
	return e.MeatOrFish() && e.Species != "fish" && e.Species != "shellfish"
}

// Unknown returns the explicit entry for an unresolvable ingredient name.
// Source is SourceUnknown, never empty: callers must handle it, not skip it.
func Unknown(name string) IngredientEntry {
	return IngredientEntry{
		CanonicalName: NormalizeKey(name),
		Source:        SourceUnknown,
		Provenance:    ProvenanceUnknown,
		Confidence:    0,
	}
}
