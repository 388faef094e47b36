package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safeplate/internal/ontology"
	"safeplate/internal/profile"
	"safeplate/internal/restriction"
	derrors "safeplate/pkg/domain-errors"
	"safeplate/pkg/platform/audit"
	auditmemory "safeplate/pkg/platform/audit/store/memory"
)

// stubResolver resolves from a fixed table; anything else comes back Unknown.
type stubResolver struct {
	entries map[string]ontology.IngredientEntry
}

func (r *stubResolver) Resolve(_ context.Context, name string) ontology.IngredientEntry {
	key := ontology.NormalizeKey(name)
	if entry, ok := r.entries[key]; ok {
		return entry
	}
	return ontology.Unknown(name)
}

func (r *stubResolver) Version() string { return "test.1" }

func newStubResolver() *stubResolver {
	return &stubResolver{entries: map[string]ontology.IngredientEntry{
		"beef": {
			CanonicalName: "beef", Source: ontology.SourceAnimal, Species: "cow",
			Provenance: ontology.ProvenanceLocal, Confidence: 1.0,
		},
		"lettuce": {
			CanonicalName: "lettuce", Source: ontology.SourcePlant,
			Provenance: ontology.ProvenanceLocal, Confidence: 1.0,
		},
		"rice": {
			CanonicalName: "rice", Source: ontology.SourcePlant,
			Provenance: ontology.ProvenanceLocal, Confidence: 1.0,
		},
	}}
}

func newService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	reg, err := restriction.Load()
	require.NoError(t, err)
	return NewService(newStubResolver(), reg, opts...)
}

func TestService_ExplicitRestrictionIDs(t *testing.T) {
	svc := newService(t)

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef", "lettuce"},
		RestrictionIDs: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, OverallUnsafe, verdict.Overall)
	assert.Equal(t, []string{"vegan"}, verdict.TriggeredRestrictions)
	assert.Equal(t, "test.1", verdict.OntologyVersion)
}

func TestService_ProfileBridge(t *testing.T) {
	svc := newService(t)

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients: []string{"beef", "rice"},
		Profile:     profile.Profile{DietaryPreference: "vegetarian"},
	})
	require.NoError(t, err)
	assert.Equal(t, OverallUnsafe, verdict.Overall)
}

func TestService_ExplicitIDsBypassProfile(t *testing.T) {
	svc := newService(t)

	// The profile would forbid beef; the explicit set does not.
	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef"},
		Profile:        profile.Profile{DietaryPreference: "vegan"},
		RestrictionIDs: []string{"gluten_free"},
	})
	require.NoError(t, err)
	assert.Equal(t, OverallSafe, verdict.Overall)
}

func TestService_UnknownRestrictionIsValidationError(t *testing.T) {
	svc := newService(t)

	_, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"rice"},
		RestrictionIDs: []string{"breatharian"},
	})
	require.Error(t, err)
	var derr *derrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, derrors.CodeValidation, derr.Code)
}

func TestService_InvalidProfileIsValidationError(t *testing.T) {
	svc := newService(t)

	_, err := svc.Evaluate(context.Background(), Request{
		Ingredients: []string{"rice"},
		Profile:     profile.Profile{Allergens: []string{"kryptonite"}},
	})
	require.Error(t, err)
	var derr *derrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, derrors.CodeValidation, derr.Code)
}

func TestService_UnresolvableIngredientDegradesToUncertain(t *testing.T) {
	svc := newService(t)

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"rice", "E471"},
		RestrictionIDs: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Equal(t, OverallUncertain, verdict.Overall)
	assert.Equal(t, 0.0, verdict.Confidence)
}

func TestService_DuplicateIngredientsCollapsed(t *testing.T) {
	svc := newService(t)

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"Rice", "rice", " RICE "},
		RestrictionIDs: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Len(t, verdict.Ingredients, 1)
}

func TestService_AuditEventsEmitted(t *testing.T) {
	store := auditmemory.NewInMemoryStore()
	svc := newService(t, WithAuditor(audit.NewPublisher(store)))

	_, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef", "E471"},
		RestrictionIDs: []string{"vegan"},
		RequestID:      "req-123",
	})
	require.NoError(t, err)

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, audit.ActionIngredientUnknown, events[0].Action)
	assert.Equal(t, "E471", events[0].Ingredient)
	assert.Equal(t, "req-123", events[0].RequestID)

	completed := events[1]
	assert.Equal(t, audit.ActionEvaluationCompleted, completed.Action)
	assert.Equal(t, "unsafe", completed.Overall)
	assert.Equal(t, []string{"vegan"}, completed.RestrictionIDs)
	assert.Equal(t, 2, completed.IngredientCount)
	assert.Equal(t, 1, completed.UnknownCount)
	assert.NotEmpty(t, completed.ID)
	assert.False(t, completed.Timestamp.IsZero())
}

// recordingExplainer captures the verdict it was shown.
type recordingExplainer struct {
	prose string
	err   error
	saw   *Verdict
}

func (e *recordingExplainer) Explain(_ context.Context, verdict Verdict) (string, error) {
	e.saw = &verdict
	return e.prose, e.err
}

func TestService_ExplainerAddsProseOnly(t *testing.T) {
	exp := &recordingExplainer{prose: "Beef is an animal product, which vegan diets exclude."}
	svc := newService(t, WithExplainer(exp))

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef"},
		RestrictionIDs: []string{"vegan"},
		Explain:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, OverallUnsafe, verdict.Overall)
	assert.Equal(t, exp.prose, verdict.Explanation)

	require.NotNil(t, exp.saw)
	assert.Equal(t, OverallUnsafe, exp.saw.Overall)
}

func TestService_ExplainerSkippedWhenSafe(t *testing.T) {
	exp := &recordingExplainer{prose: "should never appear"}
	svc := newService(t, WithExplainer(exp))

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"rice"},
		RestrictionIDs: []string{"vegan"},
		Explain:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, OverallSafe, verdict.Overall)
	assert.Empty(t, verdict.Explanation)
	assert.Nil(t, exp.saw)
}

func TestService_ExplainerFailureDegrades(t *testing.T) {
	exp := &recordingExplainer{err: errors.New("model unavailable")}
	svc := newService(t, WithExplainer(exp))

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef"},
		RestrictionIDs: []string{"vegan"},
		Explain:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, OverallUnsafe, verdict.Overall)
	assert.Empty(t, verdict.Explanation)
}

func TestService_ExplainNotRequestedSkipsExplainer(t *testing.T) {
	exp := &recordingExplainer{prose: "should never appear"}
	svc := newService(t, WithExplainer(exp))

	verdict, err := svc.Evaluate(context.Background(), Request{
		Ingredients:    []string{"beef"},
		RestrictionIDs: []string{"vegan"},
	})
	require.NoError(t, err)
	assert.Empty(t, verdict.Explanation)
	assert.Nil(t, exp.saw)
}
