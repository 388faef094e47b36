package ontology

import "strings"

// NormalizeKey lowers, trims, and collapses an ingredient name into the
// deterministic lookup key used across the registry and its stores.
// "Whole  Milk " and "whole milk" resolve identically.
func NormalizeKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Words that indicate a string is a sentence or question, not an ingredient.
var sentenceVerbs = map[string]bool{
	"eat": true, "can": true, "have": true, "does": true, "allow": true,
	"permit": true, "is": true, "are": true, "do": true, "will": true,
	"should": true, "could": true, "would": true, "may": true, "might": true,
	"make": true, "tell": true, "check": true, "know": true, "find": true,
	"safe": true, "ok": true, "okay": true,
}

var dietWords = map[string]bool{
	"jain": true, "vegan": true, "vegetarian": true, "halal": true,
	"kosher": true, "hindu": true, "pescatarian": true, "lacto": true,
	"ovo": true, "sikh": true, "buddhist": true,
}

var stopWords = map[string]bool{
	"i": true, "my": true, "me": true, "a": true, "the": true,
	"for": true, "to": true,
}

// ValidIngredientInput rejects strings that are obviously sentences or
// questions so they never reach the external connectors. "can jain eat onion"
// must not become an Open Food Facts query. Valid ingredient names are short
// and verb-free.
func ValidIngredientInput(key string) bool {
	if key == "" {
		return false
	}
	words := strings.Fields(key)
	if len(words) > 5 {
		return false
	}
	hasVerb, hasDiet := false, false
	stop := 0
	for _, w := range words {
		if sentenceVerbs[w] {
			hasVerb = true
		}
		if dietWords[w] {
			hasDiet = true
		}
		if sentenceVerbs[w] || stopWords[w] {
			stop++
		}
	}
	if hasVerb && hasDiet {
		return false
	}
	if len(words) > 2 && stop*2 > len(words) {
		return false
	}
	return true
}
