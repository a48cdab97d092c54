package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// SchemaVersion is the version of the meal model. Version 1 is the legacy
// flat meals table, version 2 is MealEvent.
const SchemaVersion = 2

// LegacyMeal is a row of the version 1 meals table.
type LegacyMeal struct {
	UserID      uint
	Date        string // 2006-01-02
	Time        string // 15:04
	Summary     string
	Calories    int
	Source      string
	IsCarnivore bool
	Macros      string // {"protein":..,"fat":..,"carbs":..}, may be empty
}

type legacyMacros struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// MigrateLegacyMeal converts a version 1 row into a MealEvent. Version 1
// only knew carnivore or not: true becomes Strict, false becomes a
// NotCompliant meal flagged for confirmation since no ingredients were kept.
func MigrateLegacyMeal(l LegacyMeal, loc *time.Location) (MealEvent, error) {
	if loc == nil {
		loc = time.UTC
	}

	ts, err := time.ParseInLocation("2006-01-02 15:04", l.Date+" "+l.Time, loc)
	if err != nil {
		return MealEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidSchema,
			"legacy meal has bad date/time %q %q", l.Date, l.Time)
	}

	var macros legacyMacros
	if m := strings.TrimSpace(l.Macros); m != "" && m != "null" {
		if err := json.Unmarshal([]byte(m), &macros); err != nil {
			return MealEvent{}, apperrors.Wrap(err, apperrors.ErrorTypeValidation, apperrors.CodeInvalidSchema,
				"legacy meal has malformed macros")
		}
	}

	source := strings.ToLower(strings.TrimSpace(l.Source))
	switch source {
	case "", "manual":
		source = string(SourceManual)
	case "audio":
		source = string(SourceVoice)
	}
	src, err := ParseEventSource(source)
	if err != nil {
		return MealEvent{}, err
	}

	res := diet.ValidationResult{
		IsValid:        l.IsCarnivore,
		Level:          diet.Strict,
		RulesetVersion: "legacy",
	}
	if !l.IsCarnivore {
		res.Level = diet.NotCompliant
	}

	meal, err := NewMealEvent(MealInput{
		UserID:       l.UserID,
		Timestamp:    ts,
		Summary:      l.Summary,
		CaloriesKcal: float64(l.Calories),
		ProteinG:     macros.Protein,
		FatG:         macros.Fat,
		CarbsG:       macros.Carbs,
		Source:       src,
	}, res, diet.Whole)
	if err != nil {
		return MealEvent{}, err
	}

	// The verdict cannot be re-derived without ingredients, so the meal
	// itself asks for confirmation.
	if !l.IsCarnivore {
		meal.NeedsConfirmation = true
		meal.Warnings = []string{legacyWarning}
	}
	return meal, nil
}

const legacyWarning = "Imported from legacy log - ingredients not recorded"
