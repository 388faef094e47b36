// Package compliance combines ingredient resolution with restriction
// predicates into a single safety verdict. The aggregation itself is a pure
// function; everything that touches the network lives in the service.
package compliance

import (
	"time"

	"safeplate/internal/ontology"
	"safeplate/internal/restriction"
)

// Overall is the aggregate safety verdict for one evaluation.
type Overall string

const (
	// OverallSafe means no restriction forbade or questioned any ingredient.
	OverallSafe Overall = "safe"

	// OverallUnsafe means at least one ingredient is forbidden. One
	// disqualifying ingredient disqualifies the item.
	OverallUnsafe Overall = "unsafe"

	// OverallUncertain means nothing was forbidden outright but at least one
	// ingredient could not be cleared.
	OverallUncertain Overall = "uncertain"
)

// Finding is one non-Allowed (ingredient, restriction) pair.
type Finding struct {
	RestrictionID string              `json:"restriction_id"`
	Verdict       restriction.Verdict `json:"verdict"`
	Reason        string              `json:"reason"`
}

// IngredientResult is the evaluation outcome for one ingredient. Findings
// lists only the restrictions that forbade or questioned it; an allowed
// ingredient has none.
type IngredientResult struct {
	Name     string                   `json:"name"`
	Entry    ontology.IngredientEntry `json:"entry"`
	Verdict  restriction.Verdict      `json:"verdict"`
	Findings []Finding                `json:"findings,omitempty"`
}

// Verdict is the immutable result of one evaluation. Constructed fresh per
// call and never mutated afterwards; the explanation stage receives a copy
// and can only contribute prose.
type Verdict struct {
	Overall               Overall            `json:"overall"`
	Ingredients           []IngredientResult `json:"ingredients"`
	TriggeredRestrictions []string           `json:"triggered_restrictions,omitempty"`
	Confidence            float64            `json:"confidence"`
	OntologyVersion       string             `json:"ontology_version,omitempty"`
	EvaluatedAt           time.Time          `json:"evaluated_at"`
	Explanation           string             `json:"explanation,omitempty"`
}

// ResolvedIngredient pairs an input name with its ontology entry. Input to
// the pure aggregation step.
type ResolvedIngredient struct {
	Name  string
	Entry ontology.IngredientEntry
}
