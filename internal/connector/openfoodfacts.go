package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"safeplate/internal/ontology"
)

const offSearchURL = "https://world.openfoodfacts.org/cgi/search.pl"

// OpenFoodFacts queries the crowd-sourced Open Food Facts product database.
// No API key required. Structured tags (labels, allergens) are the primary
// classification signal; free-text inference is the fallback.
type OpenFoodFacts struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// OFFOption configures the connector.
type OFFOption func(*OpenFoodFacts)

// WithOFFBaseURL overrides the API endpoint, for tests.
func WithOFFBaseURL(u string) OFFOption {
	return func(c *OpenFoodFacts) { c.baseURL = u }
}

// WithOFFHTTPClient overrides the HTTP client.
func WithOFFHTTPClient(client *http.Client) OFFOption {
	return func(c *OpenFoodFacts) { c.client = client }
}

// WithOFFLogger sets a logger.
func WithOFFLogger(logger *slog.Logger) OFFOption {
	return func(c *OpenFoodFacts) { c.logger = logger }
}

// NewOpenFoodFacts constructs the connector.
func NewOpenFoodFacts(opts ...OFFOption) *OpenFoodFacts {
	c := &OpenFoodFacts{
		baseURL: offSearchURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *OpenFoodFacts) ID() string { return "open_food_facts" }

type offProduct struct {
	ProductName     string   `json:"product_name"`
	ProductNameEN   string   `json:"product_name_en"`
	IngredientsText string   `json:"ingredients_text"`
	LabelsTags      []string `json:"labels_tags"`
	AllergensTags   []string `json:"allergens_tags"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

func (p offProduct) name() string {
	if p.ProductName != "" {
		return p.ProductName
	}
	return p.ProductNameEN
}

func tagsContain(tags []string, needle string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}

// Lookup searches OFF and maps the best product onto the ontology schema.
func (c *OpenFoodFacts) Lookup(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	if key == "" {
		return ontology.IngredientEntry{}, NewError(CategoryNotFound, c.ID(), "empty query", nil)
	}

	q := url.Values{}
	q.Set("search_terms", key)
	q.Set("search_simple", "1")
	q.Set("action", "process")
	q.Set("json", "1")
	q.Set("page_size", "5")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return ontology.IngredientEntry{}, NewError(CategoryInternal, c.ID(), "build request", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ontology.IngredientEntry{}, NewError(CategoryTimeout, c.ID(), "request timed out", err)
		}
		return ontology.IngredientEntry{}, NewError(CategoryOutage, c.ID(), "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ontology.IngredientEntry{}, NewError(CategoryRateLimited, c.ID(), "upstream rate limit", nil)
	case resp.StatusCode >= 500:
		return ontology.IngredientEntry{}, NewError(CategoryOutage, c.ID(), fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return ontology.IngredientEntry{}, NewError(CategoryBadData, c.ID(), fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var body offSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ontology.IngredientEntry{}, NewError(CategoryBadData, c.ID(), "decode response", err)
	}
	if len(body.Products) == 0 {
		return ontology.IngredientEntry{}, NewError(CategoryNotFound, c.ID(), "no results", nil)
	}

	best := body.Products[0]
	name := best.name()
	combined := name + " " + best.IngredientsText
	entry := inferEntry(key, combined, "")

	// Structured tags beat text inference when present.
	if tagsContain(best.LabelsTags, "vegan") {
		entry.Source = ontology.SourcePlant
		entry.Allergens = removeAllergen(entry.Allergens, ontology.AllergenMilk, ontology.AllergenEgg)
	}
	if tagsContain(best.AllergensTags, "milk") && !entry.HasAllergen(ontology.AllergenMilk) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenMilk)
	}
	if tagsContain(best.AllergensTags, "egg") && !entry.HasAllergen(ontology.AllergenEgg) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenEgg)
	}
	if tagsContain(best.AllergensTags, "gluten") && !entry.HasAllergen(ontology.AllergenWheat) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenWheat)
	}
	if (tagsContain(best.AllergensTags, "soy") || tagsContain(best.AllergensTags, "soja")) && !entry.HasAllergen(ontology.AllergenSoy) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenSoy)
	}
	if tagsContain(best.AllergensTags, "sesame") && !entry.HasAllergen(ontology.AllergenSesame) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenSesame)
	}

	entry.Aliases = []string{key}
	entry.Provenance = ontology.ProvenanceOpenFoodFacts
	entry.Confidence = matchConfidence(key, name)

	if c.logger != nil {
		c.logger.Debug("open food facts lookup resolved",
			"query", key,
			"product", name,
			"confidence", entry.Confidence,
		)
	}
	return entry, nil
}

func removeAllergen(tags []ontology.Allergen, drop ...ontology.Allergen) []ontology.Allergen {
	out := tags[:0]
	for _, t := range tags {
		keep := true
		for _, d := range drop {
			if t == d {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// Health performs a minimal search to verify reachability.
func (c *OpenFoodFacts) Health(ctx context.Context) error {
	_, err := c.Lookup(ctx, "salt")
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}
