package diet

import (
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// Level is the meal-level verdict, ordered from strictest to non-compliant.
type Level int

const (
	Strict Level = iota
	Relaxed
	Dirty
	NotCompliant
)

var levelNames = map[Level]string{
	Strict:       "strict",
	Relaxed:      "relaxed",
	Dirty:        "dirty",
	NotCompliant: "not_carnivore",
}

func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether l is one of the four declared levels.
func (l Level) Valid() bool {
	_, ok := levelNames[l]
	return ok
}

// ParseLevel converts a stored or user-supplied level name.
func ParseLevel(s string) (Level, error) {
	n := Normalize(s)
	for l, name := range levelNames {
		if name == n {
			return l, nil
		}
	}
	return Strict, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown diet level %q", s)
}

// Emoji is the marker the bot shows next to a level.
func (l Level) Emoji() string {
	switch l {
	case Strict:
		return "🥩"
	case Relaxed:
		return "🧈"
	case Dirty:
		return "⚠️"
	case NotCompliant:
		return "❌"
	default:
		return "❓"
	}
}

// Description is the human-readable level label.
func (l Level) Description() string {
	switch l {
	case Strict:
		return "Strict carnivore"
	case Relaxed:
		return "Relaxed carnivore"
	case Dirty:
		return "Dirty carnivore"
	case NotCompliant:
		return "Broke carnivore"
	default:
		return "Unknown"
	}
}

// ProcessingLevel estimates how industrially processed a meal is.
type ProcessingLevel string

const (
	Whole              ProcessingLevel = "whole"
	MinimallyProcessed ProcessingLevel = "minimally_processed"
	Processed          ProcessingLevel = "processed"
	UltraProcessed     ProcessingLevel = "ultra_processed"
)

// ParseProcessingLevel accepts only the four declared values.
func ParseProcessingLevel(s string) (ProcessingLevel, error) {
	switch p := ProcessingLevel(Normalize(s)); p {
	case Whole, MinimallyProcessed, Processed, UltraProcessed:
		return p, nil
	}
	return Whole, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown processing level %q", s)
}
