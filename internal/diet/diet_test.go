package diet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomyTiersAreDisjoint(t *testing.T) {
	raw := map[Tier][]string{
		StrictAllowed:  strictAllowed,
		RelaxedAllowed: relaxedAllowed,
		Warning:        relaxedWarning,
		DirtyAllowed:   dirtyAllowed,
		Forbidden:      alwaysForbidden,
	}

	seen := make(map[string]Tier)
	for tier, names := range raw {
		for _, name := range names {
			n := Normalize(name)
			if prev, ok := seen[n]; ok {
				assert.Equal(t, prev, tier, "%q appears in %s and %s", n, prev, tier)
			}
			seen[n] = tier
		}
	}

	tax := DefaultTaxonomy()
	for name, tier := range seen {
		got, ok := tax.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, tier, got, name)
	}
}

func TestNewTaxonomyRejectsOverlap(t *testing.T) {
	_, err := NewTaxonomy(map[Tier][]string{
		StrictAllowed: {"beef"},
		Forbidden:     {"Beef "},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beef")
}

func TestNewTaxonomyKeepsPriorityOrder(t *testing.T) {
	tax, err := NewTaxonomy(map[Tier][]string{
		DirtyAllowed:  {"jerky"},
		StrictAllowed: {"beef", "beef", "  "},
		Forbidden:     {"rice"},
	})
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Tier: Forbidden, Name: "rice"},
		{Tier: StrictAllowed, Name: "beef"},
		{Tier: DirtyAllowed, Name: "jerky"},
	}, tax.Entries())
	assert.Equal(t, []string{"beef"}, tax.Names(StrictAllowed))
}

func TestClassify(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		name       string
		ingredient string
		want       Tier
	}{
		{"exact strict", "beef", StrictAllowed},
		{"exact relaxed", "butter", RelaxedAllowed},
		{"exact warning", "garlic", Warning},
		{"exact dirty", "hot dog", DirtyAllowed},
		{"exact forbidden", "rice", Forbidden},
		{"case and whitespace", "  RIBEYE ", StrictAllowed},
		{"input contains strict name", "grass-fed ribeye", StrictAllowed},
		{"input contained by relaxed name", "cheese", RelaxedAllowed},
		{"input contains warning name", "garlic powder", Warning},
		{"forbidden wins substring collisions", "bacon and rice", Forbidden},
		{"known limitation: embedded short name", "sweetbreads", Forbidden},
		{"unmatched", "xyzzy", Unknown},
		{"blank", "   ", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Classify(tt.ingredient))
		})
	}
}

func TestClassifyNormalizationInvariance(t *testing.T) {
	m := NewMatcher(DefaultTaxonomy())
	assert.Equal(t, m.Classify("beef"), m.Classify("BEEF "))
}

func TestValidateAllStrict(t *testing.T) {
	m := NewMatcher(nil)
	res := m.Validate([]string{"beef", "eggs", "salt"}, Strict)

	assert.True(t, res.IsValid)
	assert.Equal(t, Strict, res.Level)
	assert.Empty(t, res.WarningMessages)
	assert.Empty(t, res.WarningItems)
	assert.False(t, res.NeedsConfirmation)
	assert.ElementsMatch(t, []string{"beef", "eggs", "salt"}, res.Allowed)
	assert.Equal(t, RulesetVersion, res.RulesetVersion)
}

func TestValidateForbidden(t *testing.T) {
	m := NewMatcher(nil)
	res := m.Validate([]string{"rice", "beef", "potato"}, Strict)

	assert.False(t, res.IsValid)
	assert.Equal(t, NotCompliant, res.Level)
	assert.ElementsMatch(t, []string{"rice", "potato"}, res.Forbidden)
	assert.ElementsMatch(t, []string{"beef"}, res.Allowed)
	assert.False(t, res.NeedsConfirmation)
}

func TestValidateRelaxedDependsOnTarget(t *testing.T) {
	m := NewMatcher(nil)

	strict := m.Validate([]string{"steak", "butter"}, Strict)
	assert.Equal(t, Relaxed, strict.Level)
	assert.True(t, strict.IsValid)
	assert.Equal(t, []string{"butter"}, strict.WarningItems)
	assert.Equal(t, []string{"'butter' is only allowed in RELAXED mode"}, strict.WarningMessages)
	assert.True(t, strict.NeedsConfirmation)

	relaxed := m.Validate([]string{"steak", "butter"}, Relaxed)
	assert.Equal(t, Relaxed, relaxed.Level)
	assert.Empty(t, relaxed.WarningMessages)
	assert.False(t, relaxed.NeedsConfirmation)
}

func TestValidateWarningTier(t *testing.T) {
	res := NewMatcher(nil).Validate([]string{"beef", "garlic"}, Relaxed)

	assert.Equal(t, Relaxed, res.Level)
	assert.Equal(t, []string{"garlic"}, res.WarningItems)
	assert.Equal(t, []string{"'garlic' should be used sparingly"}, res.WarningMessages)
	assert.True(t, res.NeedsConfirmation)
}

func TestValidateDirty(t *testing.T) {
	m := NewMatcher(nil)

	res := m.Validate([]string{"hot dog", "eggs"}, Strict)
	assert.Equal(t, Dirty, res.Level)
	assert.True(t, res.IsValid)
	assert.ElementsMatch(t, []string{"hot dog", "eggs"}, res.Allowed)
	assert.Equal(t, []string{"'hot dog' is processed - considered DIRTY carnivore"}, res.WarningMessages)
	assert.False(t, res.NeedsConfirmation)

	// dirty never downgrades a forbidden verdict, whatever the order
	for _, in := range [][]string{{"hot dog", "bread"}, {"bread", "hot dog"}} {
		assert.Equal(t, NotCompliant, m.Validate(in, Strict).Level)
	}

	// relaxed never downgrades dirty
	assert.Equal(t, Dirty, m.Validate([]string{"salami", "butter"}, Strict).Level)
}

func TestValidateUnknownNeedsConfirmation(t *testing.T) {
	res := NewMatcher(nil).Validate([]string{"beef", "xyzzy"}, Strict)

	assert.Equal(t, Strict, res.Level)
	assert.True(t, res.IsValid)
	assert.Equal(t, []string{"xyzzy"}, res.WarningItems)
	assert.Equal(t, []string{"Unknown ingredient 'xyzzy' - needs verification"}, res.WarningMessages)
	assert.True(t, res.NeedsConfirmation)
}

func TestValidateEmptyAndBlank(t *testing.T) {
	m := NewMatcher(nil)

	for _, in := range [][]string{nil, {}, {"", "  "}} {
		res := m.Validate(in, Strict)
		assert.True(t, res.IsValid)
		assert.Equal(t, Strict, res.Level)
		assert.False(t, res.NeedsConfirmation)
		assert.Empty(t, res.WarningMessages)
	}
}

func TestValidateOrderIndependentPartition(t *testing.T) {
	m := NewMatcher(nil)
	a := m.Validate([]string{"beef", "rice", "butter", "xyzzy", "salami"}, Strict)
	b := m.Validate([]string{"salami", "xyzzy", "butter", "rice", "beef"}, Strict)

	assert.Equal(t, a.Level, b.Level)
	assert.Equal(t, a.IsValid, b.IsValid)
	assert.ElementsMatch(t, a.Allowed, b.Allowed)
	assert.ElementsMatch(t, a.Forbidden, b.Forbidden)
	assert.ElementsMatch(t, a.WarningItems, b.WarningItems)
}

func TestValidateIsPure(t *testing.T) {
	m := NewMatcher(nil)
	in := []string{"beef", "garlic", "hot dog", "xyzzy"}
	assert.Equal(t, m.Validate(in, Strict), m.Validate(in, Strict))
	assert.Equal(t, []string{"beef", "garlic", "hot dog", "xyzzy"}, in)
}

func TestValidateInvariants(t *testing.T) {
	m := NewMatcher(nil)
	inputs := [][]string{
		{"beef"}, {"rice"}, {"butter"}, {"garlic"}, {"jerky"}, {"xyzzy"},
		{"beef", "rice", "garlic"}, {"bacon", "eggs", "cream", "onion"},
	}
	for _, in := range inputs {
		for _, target := range []Level{Strict, Relaxed} {
			res := m.Validate(in, target)
			assert.Equal(t, len(res.Forbidden) == 0, res.IsValid, in)
			assert.Equal(t, len(res.WarningItems) > 0 && res.IsValid, res.NeedsConfirmation, in)
			if len(res.Forbidden) > 0 {
				assert.Equal(t, NotCompliant, res.Level, in)
			}
		}
	}
}

func TestEstimateProcessing(t *testing.T) {
	m := NewMatcher(nil)

	assert.Equal(t, Whole, m.EstimateProcessing([]string{"beef", "eggs"}))
	assert.Equal(t, Whole, m.EstimateProcessing(nil))
	assert.Equal(t, MinimallyProcessed, m.EstimateProcessing([]string{"beef", "eggs", "butter", "bacon"}))
	assert.Equal(t, Processed, m.EstimateProcessing([]string{"beef", "hot dog", "eggs"}))
	assert.Equal(t, Processed, m.EstimateProcessing([]string{"beef", "hot dog"}))
	assert.Equal(t, UltraProcessed, m.EstimateProcessing([]string{"hot dog", "salami", "beef"}))
}

func TestEstimateProcessingIgnoresBlankEntries(t *testing.T) {
	m := NewMatcher(nil)

	assert.Equal(t, UltraProcessed, m.EstimateProcessing([]string{"hot dog", "", "  "}))
	assert.Equal(t, m.EstimateProcessing([]string{"beef", "eggs", "butter"}),
		m.EstimateProcessing([]string{"beef", "", "eggs", "\t", "butter"}))
}

func TestMealHelpers(t *testing.T) {
	assert.True(t, BreaksFast(1))
	assert.False(t, BreaksFast(0))

	ratio, ok := FatProteinRatio(45, 50)
	assert.True(t, ok)
	assert.Equal(t, 0.9, ratio)

	_, ok = FatProteinRatio(10, 0)
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	for _, l := range []Level{Strict, Relaxed, Dirty, NotCompliant} {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := ParseLevel("keto")
	assert.Error(t, err)

	assert.False(t, Level(9).Valid())
	assert.Equal(t, "unknown", Level(9).String())
}

func TestParseProcessingLevel(t *testing.T) {
	p, err := ParseProcessingLevel(" Ultra_Processed ")
	require.NoError(t, err)
	assert.Equal(t, UltraProcessed, p)

	_, err = ParseProcessingLevel("raw")
	assert.Error(t, err)
}
