// Package profile maps user dietary profiles onto restriction identifiers.
// The tables here are the single source of truth for how free-form profile
// fields become restriction IDs the engine can evaluate.
package profile

import (
	"strings"

	"safeplate/internal/restriction"
	derrors "safeplate/pkg/domain-errors"
)

// Profile is a user's dietary profile as stored or submitted.
type Profile struct {
	DietaryPreference string   `json:"dietary_preference,omitempty"`
	Allergens         []string `json:"allergens,omitempty"`
	Lifestyle         []string `json:"lifestyle,omitempty"`
}

// noRules is the sentinel preference meaning "no dietary restriction".
const noRules = "no_rules"

// dietaryPreferenceIDs maps normalized preference names to restriction IDs,
// covering both display and storage variants.
var dietaryPreferenceIDs = map[string]string{
	"jain":                 "jain",
	"vegan":                "vegan",
	"vegetarian":           "vegetarian",
	"hindu_veg":            "hindu_vegetarian",
	"hindu_vegetarian":     "hindu_vegetarian",
	"hindu_non_veg":        "hindu_non_vegetarian",
	"hindu_non_vegetarian": "hindu_non_vegetarian",
	"halal":                "halal",
	"kosher":               "kosher",
	"lacto_vegetarian":     "lacto_vegetarian",
	"ovo_vegetarian":       "ovo_vegetarian",
	"pescatarian":          "pescatarian",
	"gluten_free":          "gluten_free",
	"dairy_free":           "dairy_free",
	"egg_free":             "egg_free",
}

// allergenIDs maps normalized allergen labels to restriction IDs. Gluten,
// dairy, and egg map onto the broader free-from restrictions; everything
// else gets its dedicated allergy restriction.
var allergenIDs = map[string]string{
	"peanut":    "peanut_allergy",
	"peanuts":   "peanut_allergy",
	"nut":       "tree_nut_allergy",
	"nuts":      "tree_nut_allergy",
	"tree_nut":  "tree_nut_allergy",
	"tree_nuts": "tree_nut_allergy",
	"soy":       "soy_allergy",
	"shellfish": "shellfish_allergy",
	"fish":      "fish_allergy",
	"sesame":    "sesame_allergy",
	"onion":     "no_onion",
	"garlic":    "no_garlic",
	"gluten":    "gluten_free",
	"wheat":     "gluten_free",
	"milk":      "dairy_free",
	"dairy":     "dairy_free",
	"egg":       "egg_free",
	"eggs":      "egg_free",
	"mustard":   "mustard_allergy",
	"celery":    "celery_allergy",
}

// lifestyleIDs maps lifestyle flags to restriction IDs.
var lifestyleIDs = map[string]string{
	"no_onion":          "no_onion",
	"no_garlic":         "no_garlic",
	"no_alcohol":        "no_alcohol",
	"no_insect_derived": "no_insect_derived",
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// RestrictionIDs resolves the profile into an ordered, deduplicated list of
// restriction IDs, validated against the registry. Unknown tokens are a
// validation error: silently ignoring an allergy the user declared would be
// a safety failure, not tolerance.
func (p Profile) RestrictionIDs(reg *restriction.Registry) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) error {
		if id == "" || seen[id] {
			return nil
		}
		if _, err := reg.Get(id); err != nil {
			return derrors.Wrap(derrors.CodeValidation, "profile references unsupported restriction "+id, err)
		}
		seen[id] = true
		ids = append(ids, id)
		return nil
	}

	if pref := normalizeToken(p.DietaryPreference); pref != "" && pref != noRules {
		id, ok := dietaryPreferenceIDs[pref]
		if !ok {
			id, ok = lifestyleIDs[pref]
		}
		if !ok {
			return nil, derrors.New(derrors.CodeValidation, "unknown dietary preference: "+p.DietaryPreference)
		}
		if err := add(id); err != nil {
			return nil, err
		}
	}

	for _, a := range p.Allergens {
		key := normalizeToken(a)
		if key == "" {
			continue
		}
		id, ok := allergenIDs[key]
		if !ok {
			return nil, derrors.New(derrors.CodeValidation, "unknown allergen: "+a)
		}
		if err := add(id); err != nil {
			return nil, err
		}
	}

	for _, l := range p.Lifestyle {
		key := normalizeToken(l)
		if key == "" {
			continue
		}
		id, ok := lifestyleIDs[key]
		if !ok {
			id, ok = dietaryPreferenceIDs[key]
		}
		if !ok {
			return nil, derrors.New(derrors.CodeValidation, "unknown lifestyle flag: "+l)
		}
		if err := add(id); err != nil {
			return nil, err
		}
	}

	return ids, nil
}
