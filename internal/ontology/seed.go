package ontology

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/ontology.json
var seedFS embed.FS

type seedFile struct {
	OntologyVersion string            `json:"ontology_version"`
	Ingredients     []IngredientEntry `json:"ingredients"`
}

// LoadSeed parses the curated ontology embedded in the binary. Curated
// entries get full confidence and local provenance; a missing source category
// is a build-time data bug, not something to paper over at runtime.
func LoadSeed() (string, []IngredientEntry, error) {
	raw, err := seedFS.ReadFile("data/ontology.json")
	if err != nil {
		return "", nil, fmt.Errorf("read embedded ontology: %w", err)
	}
	var f seedFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", nil, fmt.Errorf("parse embedded ontology: %w", err)
	}
	for i := range f.Ingredients {
		e := &f.Ingredients[i]
		if e.CanonicalName == "" {
			return "", nil, fmt.Errorf("ontology entry %d: missing canonical_name", i)
		}
		if !e.Source.Valid() || e.Source == "" {
			return "", nil, fmt.Errorf("ontology entry %q: invalid source_category %q", e.CanonicalName, e.Source)
		}
		e.Provenance = ProvenanceLocal
		e.Confidence = 1.0
	}
	return f.OntologyVersion, f.Ingredients, nil
}
