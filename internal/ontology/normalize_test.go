package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Whole  Milk ", "whole milk"},
		{"whole milk", "whole milk"},
		{"  BASIL  ", "basil"},
		{"crème fraîche", "cr me fra che"},
		{"e-471", "e 471"},
		{"Soy Sauce (Light)", "soy sauce light"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestValidIngredientInput_AcceptsNames(t *testing.T) {
	for _, in := range []string{
		"milk",
		"whole milk",
		"extra virgin olive oil",
		"red wine vinegar",
		"e 471",
	} {
		assert.True(t, ValidIngredientInput(in), "input %q", in)
	}
}

func TestValidIngredientInput_RejectsSentences(t *testing.T) {
	for _, in := range []string{
		"",
		"can jain eat onion",
		"is milk vegan",
		"what can i eat for dinner tonight maybe",
		"check if this is safe for me",
	} {
		assert.False(t, ValidIngredientInput(in), "input %q", in)
	}
}

func TestValidIngredientInput_DietNameAloneIsFine(t *testing.T) {
	// A diet word without a verb could be a product ("vegan cheese").
	assert.True(t, ValidIngredientInput("vegan cheese"))
	assert.True(t, ValidIngredientInput("halal chicken"))
}
