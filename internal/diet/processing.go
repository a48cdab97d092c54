package diet

import "strings"

// EstimateProcessing grades a meal by how many of its ingredients are
// processed (DirtyAllowed) animal products. Blank entries are ignored.
func (m *Matcher) EstimateProcessing(ingredients []string) ProcessingLevel {
	total, dirty := 0, 0
	for _, ingredient := range ingredients {
		if strings.TrimSpace(ingredient) == "" {
			continue
		}
		total++
		if m.Classify(ingredient) == DirtyAllowed {
			dirty++
		}
	}

	switch {
	case dirty == 0 && total <= 3:
		return Whole
	case dirty == 0:
		return MinimallyProcessed
	case float64(dirty) <= float64(total)/2:
		return Processed
	default:
		return UltraProcessed
	}
}
