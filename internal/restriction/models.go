// Package restriction defines dietary restrictions as data-driven predicates
// over ontology entries. Each restriction is a small rule chain; evaluating
// an ingredient against one restriction is pure domain logic with no I/O.
package restriction

// Category groups restrictions for display and filtering.
type Category string

const (
	CategoryReligious Category = "religious"
	CategoryDietary   Category = "dietary"
	CategoryAllergy   Category = "allergy"
	CategoryLifestyle Category = "lifestyle"
)

// Severity grades how strictly a restriction is held. Strict restrictions
// admit no exceptions, moderate ones reflect common practice, and
// conditional ones depend on preparation or certification.
type Severity string

const (
	SeverityStrict      Severity = "strict"
	SeverityModerate    Severity = "moderate"
	SeverityConditional Severity = "conditional"
)

// Valid reports whether s is a recognized severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityStrict, SeverityModerate, SeverityConditional:
		return true
	}
	return false
}

// Verdict is the outcome of evaluating one ingredient against one
// restriction.
type Verdict string

const (
	// VerdictAllowed means no rule matched.
	VerdictAllowed Verdict = "allowed"

	// VerdictForbidden means a hard-fail rule matched.
	VerdictForbidden Verdict = "forbidden"

	// VerdictAmbiguous means the ingredient could not be cleared: either it
	// is unclassified or only advisory rules matched.
	VerdictAmbiguous Verdict = "ambiguous"
)

// Action determines how a matched rule contributes to the verdict.
type Action string

const (
	// ActionForbid hard-fails the ingredient.
	ActionForbid Action = "forbid"

	// ActionWarn flags the ingredient as ambiguous without failing it.
	ActionWarn Action = "warn"
)

// Rule is one predicate over an ontology entry. Field selects the attribute,
// Op the comparison, Value the operand. Boolean fields ignore Value.
type Rule struct {
	Field  string  `json:"field"`
	Op     string  `json:"op"`
	Value  string  `json:"value,omitempty"`
	Number float64 `json:"number,omitempty"`
	Action Action  `json:"action"`
	Reason string  `json:"reason"`
}

// Restriction is one named dietary restriction and its rule chain. Rules are
// evaluated in order; the first forbid match decides.
type Restriction struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	Rules       []Rule   `json:"rules"`
}

// Assessment is the verdict for one ingredient under one restriction,
// with the human-readable reason when it is not Allowed.
type Assessment struct {
	Verdict Verdict
	Reason  string
}
