package ontology

// Fuzzy matching over known keys, tuned to never turn one ingredient into a
// different one: the allowed edit distance is small, scales with key length,
// and the first rune must agree so "milk" cannot match "silk".

// FuzzyConfig bounds the alias match. Defaults are pinned by tests; loosen
// deliberately, not by accident.
type FuzzyConfig struct {
	// MaxDistanceShort applies to keys of five runes or fewer.
	MaxDistanceShort int
	// MaxDistanceLong applies to longer keys.
	MaxDistanceLong int
}

// DefaultFuzzyConfig returns the tolerances used in production.
func DefaultFuzzyConfig() FuzzyConfig {
	return FuzzyConfig{MaxDistanceShort: 1, MaxDistanceLong: 2}
}

func (c FuzzyConfig) maxDistance(key string) int {
	if len([]rune(key)) <= 5 {
		return c.MaxDistanceShort
	}
	return c.MaxDistanceLong
}

// FuzzyMatch returns the best known key within tolerance of key, or "" when
// nothing qualifies. Candidates whose first rune differs are rejected
// outright.
func FuzzyMatch(key string, known []string, cfg FuzzyConfig) string {
	if key == "" {
		return ""
	}
	limit := cfg.maxDistance(key)
	best, bestDist := "", limit+1
	for _, cand := range known {
		if cand == "" || cand[0] != key[0] {
			continue
		}
		if d := editDistance(key, cand, limit); d < bestDist {
			best, bestDist = cand, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// editDistance computes Levenshtein distance, bailing out early once the
// distance provably exceeds limit.
func editDistance(a, b string, limit int) int {
	ra, rb := []rune(a), []rune(b)
	if diff := len(ra) - len(rb); diff > limit || -diff > limit {
		return limit + 1
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > limit {
			return limit + 1
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
