package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"safeplate/internal/ontology"
)

const usdaSearchURL = "https://api.nal.usda.gov/fdc/v1/foods/search"

// USDA queries the USDA FoodData Central search API. Requires an API key
// (free signup); without one the connector should not be registered at all.
type USDA struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// USDAOption configures the USDA connector.
type USDAOption func(*USDA)

// WithUSDABaseURL overrides the API endpoint, for tests.
func WithUSDABaseURL(u string) USDAOption {
	return func(c *USDA) { c.baseURL = u }
}

// WithUSDAHTTPClient overrides the HTTP client.
func WithUSDAHTTPClient(client *http.Client) USDAOption {
	return func(c *USDA) { c.client = client }
}

// WithUSDALogger sets a logger.
func WithUSDALogger(logger *slog.Logger) USDAOption {
	return func(c *USDA) { c.logger = logger }
}

// NewUSDA constructs the connector.
func NewUSDA(apiKey string, opts ...USDAOption) *USDA {
	c := &USDA{
		apiKey:  apiKey,
		baseURL: usdaSearchURL,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *USDA) ID() string { return "usda_fdc" }

type usdaFood struct {
	FDCID        json.Number     `json:"fdcId"`
	Description  string          `json:"description"`
	FoodCategory json.RawMessage `json:"foodCategory"`
}

type usdaSearchResponse struct {
	Foods []usdaFood `json:"foods"`
}

// category tolerates both the string and object shapes the API returns.
func (f usdaFood) category() string {
	var s string
	if json.Unmarshal(f.FoodCategory, &s) == nil {
		return s
	}
	var obj struct {
		Description string `json:"description"`
	}
	if json.Unmarshal(f.FoodCategory, &obj) == nil {
		return obj.Description
	}
	return ""
}

// Lookup searches FDC and maps the best hit onto the ontology schema.
func (c *USDA) Lookup(ctx context.Context, key string) (ontology.IngredientEntry, error) {
	if key == "" {
		return ontology.IngredientEntry{}, NewError(CategoryNotFound, c.ID(), "empty query", nil)
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", key)
	q.Set("pageSize", "5")

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

	var body usdaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ontology.IngredientEntry{}, NewError(CategoryBadData, c.ID(), "decode response", err)
	}
	if len(body.Foods) == 0 {
		return ontology.IngredientEntry{}, NewError(CategoryNotFound, c.ID(), "no results", nil)
	}

	best := body.Foods[0]
	category := best.category()
	entry := inferEntry(key, best.Description+" "+category, category)
	entry.Aliases = []string{key}
	entry.Provenance = ontology.ProvenanceUSDA
	entry.Confidence = matchConfidence(key, best.Description)

	if c.logger != nil {
		c.logger.Debug("usda lookup resolved",
			"query", key,
			"description", best.Description,
			"fdc_id", best.FDCID.String(),
			"confidence", entry.Confidence,
		)
	}
	return entry, nil
}

// Health performs a minimal search to verify reachability and key validity.
func (c *USDA) Health(ctx context.Context) error {
	_, err := c.Lookup(ctx, "salt")
	if err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}
