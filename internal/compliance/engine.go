package compliance

import (
	"sort"
	"time"

	"safeplate/internal/ontology"
	"safeplate/internal/restriction"
)

// DedupeIngredients normalizes and deduplicates raw names, preserving first
// appearance order. The first spelling seen is kept for reporting.
func DedupeIngredients(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := ontology.NormalizeKey(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Evaluate aggregates resolved ingredients against the restriction set.
// Pure domain logic: no I/O, no side effects, deterministic for the same
// inputs.
//
// Any Forbidden pair makes the whole verdict unsafe; failing that, any
// Ambiguous pair makes it uncertain. An empty ingredient list is vacuously
// safe with full confidence.
func Evaluate(ingredients []ResolvedIngredient, restrictions []*restriction.Restriction, evalTime time.Time) Verdict {
	verdict := Verdict{
		Overall:     OverallSafe,
		Ingredients: make([]IngredientResult, 0, len(ingredients)),
		Confidence:  1.0,
		EvaluatedAt: evalTime,
	}
	if len(ingredients) == 0 {
		return verdict
	}

	triggered := make(map[string]bool)
	var contributing []float64
	minAll := 1.0

	for _, ing := range ingredients {
		result := IngredientResult{
			Name:    ing.Name,
			Entry:   ing.Entry,
			Verdict: restriction.VerdictAllowed,
		}
		for _, res := range restrictions {
			assessment := res.Evaluate(ing.Entry)
			if assessment.Verdict == restriction.VerdictAllowed {
				continue
			}
			result.Findings = append(result.Findings, Finding{
				RestrictionID: res.ID,
				Verdict:       assessment.Verdict,
				Reason:        assessment.Reason,
			})
			if assessment.Verdict == restriction.VerdictForbidden {
				result.Verdict = restriction.VerdictForbidden
				triggered[res.ID] = true
			} else if result.Verdict != restriction.VerdictForbidden {
				result.Verdict = restriction.VerdictAmbiguous
			}
		}

		if ing.Entry.Confidence < minAll {
			minAll = ing.Entry.Confidence
		}
		switch result.Verdict {
		case restriction.VerdictForbidden:
			verdict.Overall = OverallUnsafe
			contributing = append(contributing, ing.Entry.Confidence)
		case restriction.VerdictAmbiguous:
			if verdict.Overall != OverallUnsafe {
				verdict.Overall = OverallUncertain
			}
			contributing = append(contributing, ing.Entry.Confidence)
		}
		verdict.Ingredients = append(verdict.Ingredients, result)
	}

	// Confidence reflects the weakest link: the least certain entry among
	// those that raised findings, or among all entries on a clean result.
	if len(contributing) > 0 {
		min := contributing[0]
		for _, c := range contributing[1:] {
			if c < min {
				min = c
			}
		}
		verdict.Confidence = min
	} else {
		verdict.Confidence = minAll
	}

	for id := range triggered {
		verdict.TriggeredRestrictions = append(verdict.TriggeredRestrictions, id)
	}
	sort.Strings(verdict.TriggeredRestrictions)
	return verdict
}
