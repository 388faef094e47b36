package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeplate/internal/compliance"
	"safeplate/internal/ontology"
	"safeplate/internal/profile"
	"safeplate/internal/restriction"
	"safeplate/pkg/testutil"
)

type stubResolver struct {
	entries map[string]ontology.IngredientEntry
	health  map[string]error
}

func (r *stubResolver) Resolve(_ context.Context, name string) ontology.IngredientEntry {
	key := ontology.NormalizeKey(name)
	if entry, ok := r.entries[key]; ok {
		return entry
	}
	return ontology.Unknown(name)
}

func (r *stubResolver) Version() string { return "test.1" }

func (r *stubResolver) Health(_ context.Context) map[string]error {
	return r.health
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	reg, err := restriction.Load()
	require.NoError(t, err)

	resolver := &stubResolver{
		entries: map[string]ontology.IngredientEntry{
			"beef": {
				CanonicalName: "beef", Source: ontology.SourceAnimal, Species: "cow",
				Provenance: ontology.ProvenanceLocal, Confidence: 1.0,
			},
			"lettuce": {
				CanonicalName: "lettuce", Source: ontology.SourcePlant,
				Provenance: ontology.ProvenanceLocal, Confidence: 1.0,
			},
		},
		health: map[string]error{
			"usda_fdc":        nil,
			"open_food_facts": io.EOF,
		},
	}
	svc := compliance.NewService(resolver, reg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(New(svc, resolver, reg, logger), logger)
}

func TestHandleEvaluate(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/evaluate", EvaluateRequest{
		Ingredients:    []string{"beef", "lettuce"},
		RestrictionIDs: []string{"vegan"},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
	assert.Equal(t, "unsafe", resp.Overall)
	assert.Equal(t, []string{"vegan"}, resp.TriggeredRestrictions)
	assert.Equal(t, "test.1", resp.OntologyVersion)

	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "forbidden", resp.Ingredients[0].Verdict)
	require.Len(t, resp.Ingredients[0].Findings, 1)
	assert.Equal(t, "vegan", resp.Ingredients[0].Findings[0].RestrictionID)
	assert.Equal(t, "allowed", resp.Ingredients[1].Verdict)
}

func TestHandleEvaluate_ProfileBody(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/evaluate", EvaluateRequest{
		Ingredients: []string{"lettuce"},
		Profile:     profile.Profile{DietaryPreference: "vegan"},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[EvaluateResponse](t, rr)
	assert.Equal(t, "safe", resp.Overall)
}

func TestHandleEvaluate_InvalidJSON(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewRequestWithBody(t, http.MethodPost, "/v1/evaluate", `{"ingredients": [`)
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
}

func TestHandleEvaluate_MissingRestrictions(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/evaluate", EvaluateRequest{
		Ingredients: []string{"beef"},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestHandleEvaluate_UnknownRestriction(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/evaluate", EvaluateRequest{
		Ingredients:    []string{"beef"},
		RestrictionIDs: []string{"breatharian"},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestHandleEvaluate_TooManyIngredients(t *testing.T) {
	router := newTestRouter(t)

	ingredients := make([]string, 201)
	for i := range ingredients {
		ingredients[i] = "rice"
	}
	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/evaluate", EvaluateRequest{
		Ingredients:    ingredients,
		RestrictionIDs: []string{"vegan"},
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
}

func TestHandleIngredient_Known(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/ingredients/beef"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[IngredientEntryResponse](t, rr)
	assert.Equal(t, "beef", resp.Query)
	assert.Equal(t, ontology.SourceAnimal, resp.Entry.Source)
	assert.Equal(t, "cow", resp.Entry.Species)
}

func TestHandleIngredient_UnknownIsNot404(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/ingredients/zzyzx%20powder"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[IngredientEntryResponse](t, rr)
	assert.Equal(t, "zzyzx powder", resp.Query)
	assert.True(t, resp.Entry.IsUnknown())
}

func TestHandleRestrictions(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/restrictions"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		Restrictions []RestrictionResponse `json:"restrictions"`
	}](t, rr)
	require.NotEmpty(t, resp.Restrictions)

	severities := make(map[string]string, len(resp.Restrictions))
	for _, res := range resp.Restrictions {
		severities[res.ID] = res.Severity
		assert.NotEmpty(t, res.DisplayName, "restriction %q", res.ID)
		assert.NotEmpty(t, res.Category, "restriction %q", res.ID)
		assert.NotEmpty(t, res.Severity, "restriction %q", res.ID)
	}
	assert.Equal(t, "strict", severities["vegan"])
	assert.Equal(t, "conditional", severities["halal"])
	assert.Contains(t, severities, "jain")
	assert.Contains(t, severities, "sesame_allergy")
}

func TestHandleHealthz(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[struct {
		Status     string            `json:"status"`
		Connectors map[string]string `json:"connectors"`
	}](t, rr)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Connectors["usda_fdc"])
	assert.Equal(t, "unreachable", resp.Connectors["open_food_facts"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatus(t, rr, http.StatusOK)
}
