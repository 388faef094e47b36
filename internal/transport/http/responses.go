package httptransport

import (
	"time"

	"safeplate/internal/compliance"
	"safeplate/internal/ontology"
	"safeplate/internal/restriction"
)

// EvaluateResponse is the HTTP response body for POST /v1/evaluate.
type EvaluateResponse struct {
	Overall               string               `json:"overall"`
	Ingredients           []IngredientResponse `json:"ingredients"`
	TriggeredRestrictions []string             `json:"triggered_restrictions,omitempty"`
	Confidence            float64              `json:"confidence"`
	OntologyVersion       string               `json:"ontology_version,omitempty"`
	EvaluatedAt           time.Time            `json:"evaluated_at"`
	Explanation           string               `json:"explanation,omitempty"`
}

// IngredientResponse is one ingredient's outcome in the response.
type IngredientResponse struct {
	Name           string            `json:"name"`
	CanonicalName  string            `json:"canonical_name"`
	SourceCategory string            `json:"source_category"`
	Provenance     string            `json:"provenance"`
	Confidence     float64           `json:"confidence"`
	Verdict        string            `json:"verdict"`
	Findings       []FindingResponse `json:"findings,omitempty"`
}

// FindingResponse is one non-allowed (ingredient, restriction) pair.
type FindingResponse struct {
	RestrictionID string `json:"restriction_id"`
	Verdict       string `json:"verdict"`
	Reason        string `json:"reason"`
}

// FromVerdict maps a domain verdict to the response shape.
func FromVerdict(v compliance.Verdict) EvaluateResponse {
	resp := EvaluateResponse{
		Overall:               string(v.Overall),
		Ingredients:           make([]IngredientResponse, 0, len(v.Ingredients)),
		TriggeredRestrictions: v.TriggeredRestrictions,
		Confidence:            v.Confidence,
		OntologyVersion:       v.OntologyVersion,
		EvaluatedAt:           v.EvaluatedAt,
		Explanation:           v.Explanation,
	}
	for _, ing := range v.Ingredients {
		ir := IngredientResponse{
			Name:           ing.Name,
			CanonicalName:  ing.Entry.CanonicalName,
			SourceCategory: string(ing.Entry.Source),
			Provenance:     string(ing.Entry.Provenance),
			Confidence:     ing.Entry.Confidence,
			Verdict:        string(ing.Verdict),
		}
		for _, f := range ing.Findings {
			ir.Findings = append(ir.Findings, FindingResponse{
				RestrictionID: f.RestrictionID,
				Verdict:       string(f.Verdict),
				Reason:        f.Reason,
			})
		}
		resp.Ingredients = append(resp.Ingredients, ir)
	}
	return resp
}

// IngredientEntryResponse is the body for GET /v1/ingredients/{name}.
type IngredientEntryResponse struct {
	Query string                   `json:"query"`
	Entry ontology.IngredientEntry `json:"entry"`
}

// RestrictionResponse is one restriction in GET /v1/restrictions.
type RestrictionResponse struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Aliases     []string `json:"aliases,omitempty"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity"`
}

// FromRestrictions maps the restriction list to the response shape.
func FromRestrictions(list []*restriction.Restriction) []RestrictionResponse {
	out := make([]RestrictionResponse, 0, len(list))
	for _, res := range list {
		out = append(out, RestrictionResponse{
			ID:          res.ID,
			DisplayName: res.DisplayName,
			Aliases:     res.Aliases,
			Category:    string(res.Category),
			Severity:    string(res.Severity),
		})
	}
	return out
}
