package diet

import "strings"

// Matcher resolves ingredient names against a Taxonomy. It holds no mutable
// state, so one Matcher can serve any number of goroutines.
type Matcher struct {
	taxonomy *Taxonomy
}

// NewMatcher returns a matcher over t. A nil taxonomy means DefaultTaxonomy.
func NewMatcher(t *Taxonomy) *Matcher {
	if t == nil {
		t = DefaultTaxonomy()
	}
	return &Matcher{taxonomy: t}
}

// Taxonomy returns the reference data the matcher was built with.
func (m *Matcher) Taxonomy() *Taxonomy {
	return m.taxonomy
}

// Classify maps a free-text ingredient to its tier.
//
// Exact matches win. Otherwise the first tier (in Forbidden, StrictAllowed,
// RelaxedAllowed, Warning, DirtyAllowed order) holding a name that contains
// the input, or is contained by it, wins. Substring matching is a known
// approximation: short names embedded in unrelated longer words ("pea" in
// "peach") resolve to that name's tier.
func (m *Matcher) Classify(ingredient string) Tier {
	name := Normalize(ingredient)
	if name == "" {
		return Unknown
	}
	if tier, ok := m.taxonomy.exact[name]; ok {
		return tier
	}
	for _, tier := range matchPriority {
		for _, known := range m.taxonomy.byTier[tier] {
			if strings.Contains(name, known) || strings.Contains(known, name) {
				return tier
			}
		}
	}
	return Unknown
}
