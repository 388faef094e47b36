package connector

import (
	"regexp"
	"strings"
	"sync"

	"safeplate/internal/ontology"
)

// Classification of free-text food descriptions into ontology attributes.
// Category metadata from the upstream is the primary signal; keyword matching
// is the fallback, guarded by a plant-override list so compound names like
// "peanut butter" or "almond milk" never classify as dairy.

var animalMeatCategories = []string{
	"beef products", "pork products", "poultry products",
	"lamb, veal, and game products", "sausages and luncheon meats",
	"finfish and shellfish products",
}

var plantCategories = []string{
	"vegetables and vegetable products", "fruits and fruit juices",
	"legumes and legume products", "nut and seed products",
	"cereal grains and pasta", "spices and herbs", "baked products",
}

// Plant-based items whose names contain misleading animal keywords.
var plantOverrides = []string{
	"peanut butter", "almond butter", "cashew butter", "sunflower butter",
	"cocoa butter", "shea butter", "apple butter",
	"almond milk", "oat milk", "soy milk", "rice milk", "coconut milk",
	"cashew milk", "hemp milk", "flax milk",
	"coconut cream", "coconut yogurt", "coconut cheese",
	"vegan cheese", "vegan butter", "vegan cream", "vegan egg",
	"tofu", "tempeh", "seitan", "jackfruit", "nutritional yeast",
	"plant-based", "plant based", "meatless", "dairy-free", "dairy free",
	"eggplant", "egg plant",
	"butternut", "buttercup squash", "butterbean", "butter bean",
	"butterscotch", "cream of tartar", "creamed corn", "cream soda",
}

func isPlantOverride(text string) bool {
	for _, p := range plantOverrides {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

var (
	wordMatchMu    sync.Mutex
	wordMatchCache = map[string]*regexp.Regexp{}
)

// wordMatch does word-boundary matching with plural tolerance: "onion"
// matches "onions" but "butter" does not match "butterscotch". The compiled
// pattern cache is shared across concurrent lookups.
func wordMatch(text, word string) bool {
	wordMatchMu.Lock()
	re, ok := wordMatchCache[word]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `(?:e?s)?\b`)
		wordMatchCache[word] = re
	}
	wordMatchMu.Unlock()
	return re.MatchString(text)
}

func anyWordMatch(text string, words ...string) bool {
	for _, w := range words {
		if wordMatch(text, w) {
			return true
		}
	}
	return false
}

func categoryContains(category string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(category, c) {
			return true
		}
	}
	return false
}

// inferSpecies guesses an animal species from category and description for
// restriction matching (halal/kosher/hindu rules key on species).
func inferSpecies(category, text string) string {
	switch {
	case strings.Contains(category, "pork") || anyWordMatch(text, "pork", "bacon", "ham"):
		return "pig"
	case strings.Contains(category, "beef") || anyWordMatch(text, "beef", "veal"):
		return "cow"
	case strings.Contains(category, "poultry") || anyWordMatch(text, "chicken", "turkey", "duck"):
		return "chicken"
	case strings.Contains(category, "lamb") || anyWordMatch(text, "lamb", "mutton", "goat"):
		return "lamb"
	case anyWordMatch(text, "shrimp", "crab", "lobster", "prawn", "clam", "mussel", "oyster", "scallop"):
		return "shellfish"
	case strings.Contains(category, "finfish") || anyWordMatch(text, "fish", "salmon", "tuna", "cod"):
		return "fish"
	}
	return ""
}

// inferEntry classifies a description plus upstream category into an
// IngredientEntry. Provenance and confidence are set by the caller.
func inferEntry(name, description, category string) ontology.IngredientEntry {
	text := strings.ToLower(description)
	cat := strings.ToLower(strings.TrimSpace(category))
	override := isPlantOverride(text)

	catMeat := categoryContains(cat, animalMeatCategories)
	catDairyEgg := strings.Contains(cat, "dairy and egg products")
	catPlant := categoryContains(cat, plantCategories)

	var source ontology.SourceCategory
	switch {
	case override:
		source = ontology.SourcePlant
	case catDairyEgg && !strings.Contains(cat, "egg"):
		source = ontology.SourceDairy
	case catMeat || catDairyEgg:
		source = ontology.SourceAnimal
	case catPlant:
		source = ontology.SourcePlant
	case anyWordMatch(text, "meat", "beef", "pork", "chicken", "fish", "gelatin", "lard", "tallow", "animal", "rennet"):
		source = ontology.SourceAnimal
	case anyWordMatch(text, "whey", "casein", "milk", "cheese", "cream", "butter", "dairy", "lactose", "ghee", "curd", "yogurt"):
		source = ontology.SourceDairy
	default:
		source = ontology.SourcePlant
	}

	entry := ontology.IngredientEntry{
		CanonicalName: ontology.NormalizeKey(name),
		Source:        source,
	}

	if source == ontology.SourceDairy || (catDairyEgg && !override) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenMilk)
	}
	eggText := wordMatch(text, "egg") && !strings.Contains(text, "eggplant") && !strings.Contains(text, "egg plant")
	if !override && (eggText || (catDairyEgg && strings.Contains(cat, "egg"))) {
		entry.Allergens = append(entry.Allergens, ontology.AllergenEgg)
	}
	if anyWordMatch(text, "wheat", "barley", "rye", "gluten") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenWheat)
	}
	if anyWordMatch(text, "soy", "soybean", "tofu", "tempeh") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenSoy)
	}
	if wordMatch(text, "peanut") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenPeanuts)
	} else if anyWordMatch(text, "almond", "walnut", "cashew", "pecan", "hazelnut", "macadamia", "pistachio") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenTreeNuts)
	}
	if wordMatch(text, "sesame") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenSesame)
	}
	if wordMatch(text, "mustard") {
		entry.Allergens = append(entry.Allergens, ontology.AllergenMustard)
	}

	if source == ontology.SourceAnimal {
		entry.Species = inferSpecies(cat, text)
		switch entry.Species {
		case "fish":
			entry.Allergens = append(entry.Allergens, ontology.AllergenFish)
		case "shellfish":
			entry.Allergens = append(entry.Allergens, ontology.AllergenShellfish)
		}
	}

	if anyWordMatch(text, "alcohol", "wine", "beer", "spirit", "rum", "vodka", "whiskey") {
		entry.AlcoholContent = 1.0
	}
	entry.Flags = ontology.EntryFlags{
		Onion:         wordMatch(text, "onion") && !override,
		Garlic:        wordMatch(text, "garlic") && !override,
		RootVegetable: anyWordMatch(text, "potato", "carrot", "beet", "radish", "turnip", "yam", "onion", "garlic"),
		Fermented:     anyWordMatch(text, "fermented", "cultured", "brewed"),
		Fungal:        anyWordMatch(text, "mushroom", "yeast", "truffle"),
	}

	return entry
}

// matchConfidence grades how well the upstream's best hit matches the query.
// Exact or containing matches are trusted enough to persist; anything weaker
// is used for this request only.
func matchConfidence(query, description string) float64 {
	q := strings.ToLower(strings.TrimSpace(query))
	d := strings.ToLower(strings.TrimSpace(description))
	if q == "" || d == "" {
		return 0.3
	}
	first := strings.Fields(q)[0]
	if strings.Contains(d, q) || strings.Contains(q, d) || strings.Contains(d, first) {
		return 0.9
	}
	return 0.6
}
