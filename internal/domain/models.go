package domain

import (
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// User represents a telegram user in the system
type User struct {
	ID             uint
	CreatedAt      time.Time
	UpdatedAt      time.Time
	TelegramID     int64
	Username       string
	FirstName      string
	LastName       string
	PreferredLevel diet.Level
}

// Goals are a user's daily macro targets
type Goals struct {
	UserID   uint
	Calories int
	ProteinG int
	FatG     int
}

// MealInput is what an extractor or the user hands over for a new meal.
type MealInput struct {
	UserID       uint
	Timestamp    time.Time
	Summary      string
	Ingredients  []string
	Quantities   []string
	CaloriesKcal float64
	ProteinG     float64
	FatG         float64
	CarbsG       float64
	Source       EventSource
}

// MealEvent is a logged meal. It is created once and never updated.
type MealEvent struct {
	ID                uint
	UserID            uint
	Timestamp         time.Time
	Summary           string
	Ingredients       []string
	Quantities        []string
	Level             diet.Level
	CaloriesKcal      float64
	ProteinG          float64
	FatG              float64
	CarbsG            float64
	BreaksFast        bool
	Source            EventSource
	Processing        diet.ProcessingLevel
	NeedsConfirmation bool
	Warnings          []string
	RulesetVersion    string
}

// NewMealEvent builds a meal from the extractor input and the verdict the
// rules engine produced for its ingredients.
func NewMealEvent(in MealInput, res diet.ValidationResult, processing diet.ProcessingLevel) (MealEvent, error) {
	if in.CaloriesKcal < 0 || in.ProteinG < 0 || in.FatG < 0 || in.CarbsG < 0 {
		return MealEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidMacros,
			"macros must be non-negative (kcal=%.1f protein=%.1f fat=%.1f carbs=%.1f)",
			in.CaloriesKcal, in.ProteinG, in.FatG, in.CarbsG)
	}
	if !in.Source.Valid() {
		return MealEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown event source %q", in.Source)
	}
	if !res.Level.Valid() {
		return MealEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown diet level %d", res.Level)
	}

	return MealEvent{
		UserID:            in.UserID,
		Timestamp:         in.Timestamp,
		Summary:           strings.TrimSpace(in.Summary),
		Ingredients:       append([]string(nil), in.Ingredients...),
		Quantities:        append([]string(nil), in.Quantities...),
		Level:             res.Level,
		CaloriesKcal:      in.CaloriesKcal,
		ProteinG:          in.ProteinG,
		FatG:              in.FatG,
		CarbsG:            in.CarbsG,
		BreaksFast:        diet.BreaksFast(in.CaloriesKcal),
		Source:            in.Source,
		Processing:        processing,
		NeedsConfirmation: res.NeedsConfirmation,
		Warnings:          append([]string(nil), res.WarningMessages...),
		RulesetVersion:    res.RulesetVersion,
	}, nil
}

// FatProteinRatio is undefined when the meal has no protein.
func (m MealEvent) FatProteinRatio() (float64, bool) {
	return diet.FatProteinRatio(m.FatG, m.ProteinG)
}

// FastingEvent is a fast. End is nil while the fast is running.
type FastingEvent struct {
	ID     uint
	UserID uint
	Start  time.Time
	End    *time.Time
}

// NewFastingEvent rejects an end time earlier than the start.
func NewFastingEvent(userID uint, start time.Time, end *time.Time) (FastingEvent, error) {
	if end != nil && end.Before(start) {
		return FastingEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidFast,
			"fast ends (%s) before it starts (%s)", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return FastingEvent{UserID: userID, Start: start, End: end}, nil
}

func (f FastingEvent) IsActive() bool {
	return f.End == nil
}

// DurationHours is rounded to one decimal and defined only for finished fasts.
func (f FastingEvent) DurationHours() (float64, bool) {
	if f.End == nil {
		return 0, false
	}
	return math.Round(f.End.Sub(f.Start).Hours()*10) / 10, true
}

// SymptomEvent is a self-reported symptom with severity 1..5.
type SymptomEvent struct {
	ID        uint
	UserID    uint
	Timestamp time.Time
	Type      SymptomType
	Severity  int
	Notes     string
}

const (
	MinSeverity = 1
	MaxSeverity = 5
)

// NewSymptomEvent fails on an unknown type or a severity outside 1..5.
// Severity is never clamped.
func NewSymptomEvent(userID uint, ts time.Time, typ SymptomType, severity int, notes string) (SymptomEvent, error) {
	if !typ.Valid() {
		return SymptomEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "unknown symptom type %q", typ)
	}
	if severity < MinSeverity || severity > MaxSeverity {
		return SymptomEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidSeverity,
			"severity must be between %d and %d, got %d", MinSeverity, MaxSeverity, severity)
	}
	return SymptomEvent{
		UserID:    userID,
		Timestamp: ts,
		Type:      typ,
		Severity:  severity,
		Notes:     strings.TrimSpace(notes),
	}, nil
}

// WeightEvent is one body weight sample.
type WeightEvent struct {
	ID        uint
	UserID    uint
	Timestamp time.Time
	WeightKg  float64
	Notes     string
}

func NewWeightEvent(userID uint, ts time.Time, weightKg float64, notes string) (WeightEvent, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return WeightEvent{}, apperrors.NewInvalidError(apperrors.CodeInvalidWeight,
			"weight must be a positive number, got %v", weightKg)
	}
	return WeightEvent{
		UserID:    userID,
		Timestamp: ts,
		WeightKg:  weightKg,
		Notes:     strings.TrimSpace(notes),
	}, nil
}

// VoiceNote keeps a transcription that did not describe food.
type VoiceNote struct {
	ID            uint
	UserID        uint
	Timestamp     time.Time
	Transcription string
	FoodDetected  bool
}
