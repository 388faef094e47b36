package restriction

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"safeplate/internal/ontology"
)

//go:embed data/restrictions.json
var rulesFS embed.FS

// ErrUnsupportedRestriction is returned when a restriction ID or alias does
// not resolve to a known restriction.
type ErrUnsupportedRestriction struct {
	ID string
}

func (e *ErrUnsupportedRestriction) Error() string {
	return fmt.Sprintf("unsupported restriction: %q", e.ID)
}

// Registry holds the loaded restriction set. Immutable after construction
// and safe for concurrent use.
type Registry struct {
	byID    map[string]*Restriction
	ordered []*Restriction
}

type rulesFile struct {
	Restrictions []Restriction `json:"restrictions"`
}

// Load parses the embedded restriction definitions. Aliases index into the
// same restriction as its ID; a duplicate ID or alias is a data bug surfaced
// at startup, not at evaluation time.
func Load() (*Registry, error) {
	raw, err := rulesFS.ReadFile("data/restrictions.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded restrictions: %w", err)
	}
	var f rulesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse embedded restrictions: %w", err)
	}

	r := &Registry{byID: make(map[string]*Restriction, len(f.Restrictions)*2)}
	for i := range f.Restrictions {
		res := &f.Restrictions[i]
		if res.ID == "" || len(res.Rules) == 0 {
			return nil, fmt.Errorf("restriction %d: missing id or rules", i)
		}
		if res.Severity == "" {
			res.Severity = SeverityStrict
		}
		if !res.Severity.Valid() {
			return nil, fmt.Errorf("restriction %q: invalid severity %q", res.ID, res.Severity)
		}
		for _, rule := range res.Rules {
			if rule.Action != ActionForbid && rule.Action != ActionWarn {
				return nil, fmt.Errorf("restriction %q: invalid action %q", res.ID, rule.Action)
			}
		}
		keys := append([]string{res.ID}, res.Aliases...)
		for _, k := range keys {
			nk := normalizeID(k)
			if _, exists := r.byID[nk]; exists {
				return nil, fmt.Errorf("restriction %q: duplicate key %q", res.ID, nk)
			}
			r.byID[nk] = res
		}
		r.ordered = append(r.ordered, res)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].ID < r.ordered[j].ID })
	return r, nil
}

// normalizeID canonicalizes a restriction identifier: "Gluten-Free" and
// "gluten_free" address the same restriction.
func normalizeID(id string) string {
	s := strings.ToLower(strings.TrimSpace(id))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}

// Get resolves a restriction by ID or alias.
func (r *Registry) Get(id string) (*Restriction, error) {
	if res, ok := r.byID[normalizeID(id)]; ok {
		return res, nil
	}
	return nil, &ErrUnsupportedRestriction{ID: id}
}

// List returns all restrictions ordered by ID.
func (r *Registry) List() []*Restriction {
	out := make([]*Restriction, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Evaluate assesses one ingredient entry against the restriction. An
// unclassified entry is always Ambiguous: a restriction cannot clear what
// the ontology could not identify. Otherwise the first matching forbid rule
// decides; matching warn rules downgrade Allowed to Ambiguous.
func (res *Restriction) Evaluate(entry ontology.IngredientEntry) Assessment {
	if entry.IsUnknown() {
		return Assessment{
			Verdict: VerdictAmbiguous,
			Reason:  "ingredient could not be classified",
		}
	}

	var warned *Rule
	for i := range res.Rules {
		rule := &res.Rules[i]
		if !rule.matches(entry) {
			continue
		}
		if rule.Action == ActionForbid {
			return Assessment{Verdict: VerdictForbidden, Reason: rule.Reason}
		}
		if warned == nil {
			warned = rule
		}
	}
	if warned != nil {
		return Assessment{Verdict: VerdictAmbiguous, Reason: warned.Reason}
	}
	return Assessment{Verdict: VerdictAllowed}
}

func (rule *Rule) matches(e ontology.IngredientEntry) bool {
	switch rule.Field {
	case "source_category":
		return rule.Op == "eq" && string(e.Source) == rule.Value
	case "species":
		return rule.Op == "eq" && e.Species == rule.Value
	case "allergens":
		return rule.Op == "has" && e.HasAllergen(ontology.Allergen(rule.Value))
	case "alcohol_content":
		return rule.Op == "gt" && e.AlcoholContent > rule.Number
	case "meat_or_fish":
		return e.MeatOrFish()
	case "land_meat":
		return e.LandMeat()
	case "flags.root_vegetable":
		return e.Flags.RootVegetable
	case "flags.onion":
		return e.Flags.Onion
	case "flags.garlic":
		return e.Flags.Garlic
	case "flags.fermented":
		return e.Flags.Fermented
	case "flags.fungal":
		return e.Flags.Fungal
	case "flags.insect_derived":
		return e.Flags.InsectDerived
	}
	return false
}
