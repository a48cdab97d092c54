package diet

import (
	"fmt"
	"math"
	"strings"
)

// RulesetVersion is stamped on every ValidationResult so stored meals can be
// re-checked when the taxonomy changes.
const RulesetVersion = "1.0.0"

// ValidationResult is the verdict for one ingredient list. It is built
// fresh by Validate and not modified afterwards.
type ValidationResult struct {
	IsValid           bool
	Level             Level
	Allowed           []string
	Forbidden         []string
	WarningItems      []string
	WarningMessages   []string
	NeedsConfirmation bool
	RulesetVersion    string
}

// Validate classifies every ingredient and folds the tiers into one verdict
// for a user whose preferred level is target. Blank entries are ignored.
// Message order follows input order.
func (m *Matcher) Validate(ingredients []string, target Level) ValidationResult {
	res := ValidationResult{
		Level:          Strict,
		RulesetVersion: RulesetVersion,
	}

	escalate := func(to Level) {
		if res.Level < to {
			res.Level = to
		}
	}

	for _, ingredient := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" {
			continue
		}

		switch m.Classify(ingredient) {
		case Forbidden:
			res.Forbidden = append(res.Forbidden, ingredient)
			res.Level = NotCompliant

		case StrictAllowed:
			res.Allowed = append(res.Allowed, ingredient)

		case RelaxedAllowed:
			res.Allowed = append(res.Allowed, ingredient)
			if target == Strict {
				res.WarningMessages = append(res.WarningMessages,
					fmt.Sprintf("'%s' is only allowed in RELAXED mode", ingredient))
				res.WarningItems = append(res.WarningItems, ingredient)
			}
			escalate(Relaxed)

		case Warning:
			res.WarningItems = append(res.WarningItems, ingredient)
			res.WarningMessages = append(res.WarningMessages,
				fmt.Sprintf("'%s' should be used sparingly", ingredient))
			escalate(Relaxed)

		case DirtyAllowed:
			res.Allowed = append(res.Allowed, ingredient)
			res.WarningMessages = append(res.WarningMessages,
				fmt.Sprintf("'%s' is processed - considered DIRTY carnivore", ingredient))
			escalate(Dirty)

		default:
			res.WarningMessages = append(res.WarningMessages,
				fmt.Sprintf("Unknown ingredient '%s' - needs verification", ingredient))
			res.WarningItems = append(res.WarningItems, ingredient)
		}
	}

	res.IsValid = len(res.Forbidden) == 0
	res.NeedsConfirmation = len(res.WarningItems) > 0 && res.IsValid
	return res
}

// BreaksFast reports whether an intake of the given calories ends a fast.
func BreaksFast(calories float64) bool {
	return calories > 0
}

// FatProteinRatio returns fat/protein rounded to two decimals. The ratio is
// undefined (ok == false) when protein is zero.
func FatProteinRatio(fatG, proteinG float64) (ratio float64, ok bool) {
	if proteinG <= 0 {
		return 0, false
	}
	return math.Round(fatG/proteinG*100) / 100, true
}
