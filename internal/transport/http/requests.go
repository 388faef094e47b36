package httptransport

import (
	"strings"

	"safeplate/internal/profile"
	derrors "safeplate/pkg/domain-errors"
)

const (
	maxIngredients       = 200
	maxIngredientLength  = 200
	maxRestrictionLength = 64
)

// EvaluateRequest is the HTTP request body for POST /v1/evaluate. Either
// restriction_ids or profile must supply at least one restriction source;
// an empty profile with no IDs evaluates against nothing and is rejected.
type EvaluateRequest struct {
	Ingredients    []string        `json:"ingredients"`
	RestrictionIDs []string        `json:"restriction_ids,omitempty"`
	Profile        profile.Profile `json:"profile,omitempty"`
	Explain        bool            `json:"explain,omitempty"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return derrors.New(derrors.CodeBadRequest, "request body is required")
	}

	if len(r.Ingredients) > maxIngredients {
		return derrors.New(derrors.CodeValidation, "too many ingredients")
	}
	for i := range r.Ingredients {
		r.Ingredients[i] = strings.TrimSpace(r.Ingredients[i])
		if len(r.Ingredients[i]) > maxIngredientLength {
			return derrors.New(derrors.CodeValidation, "ingredient name too long")
		}
	}

	for i := range r.RestrictionIDs {
		r.RestrictionIDs[i] = strings.TrimSpace(r.RestrictionIDs[i])
		if r.RestrictionIDs[i] == "" {
			return derrors.New(derrors.CodeValidation, "restriction_ids must not contain empty values")
		}
		if len(r.RestrictionIDs[i]) > maxRestrictionLength {
			return derrors.New(derrors.CodeValidation, "restriction id too long")
		}
	}

	if len(r.RestrictionIDs) == 0 && r.Profile.DietaryPreference == "" &&
		len(r.Profile.Allergens) == 0 && len(r.Profile.Lifestyle) == 0 {
		return derrors.New(derrors.CodeValidation, "restriction_ids or profile is required")
	}
	return nil
}
