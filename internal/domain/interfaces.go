package domain

import (
	"context"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
)

// EventStore persists the append-only event log. List methods return
// events with from <= timestamp < to, oldest first.
type EventStore interface {
	AppendMeal(ctx context.Context, meal *MealEvent) error
	ListMeals(ctx context.Context, userID uint, from, to time.Time) ([]MealEvent, error)
	// FirstMealAt returns the time of the user's earliest meal, or nil.
	FirstMealAt(ctx context.Context, userID uint) (*time.Time, error)

	StartFast(ctx context.Context, fast *FastingEvent) error
	EndFast(ctx context.Context, fastID uint, end time.Time) error
	ActiveFast(ctx context.Context, userID uint) (*FastingEvent, error)
	// ListFasts filters on the fast's start time.
	ListFasts(ctx context.Context, userID uint, from, to time.Time) ([]FastingEvent, error)

	AppendSymptom(ctx context.Context, symptom *SymptomEvent) error
	ListSymptoms(ctx context.Context, userID uint, from, to time.Time) ([]SymptomEvent, error)

	AppendWeight(ctx context.Context, weight *WeightEvent) error
	ListWeights(ctx context.Context, userID uint, from, to time.Time) ([]WeightEvent, error)

	AppendVoiceNote(ctx context.Context, note *VoiceNote) error
	ListVoiceNotes(ctx context.Context, userID uint, from, to time.Time) ([]VoiceNote, error)
}

// UserStore persists users and their settings.
type UserStore interface {
	GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	SetPreferredLevel(ctx context.Context, userID uint, level diet.Level) error
	SetGoals(ctx context.Context, goals Goals) error
	GetGoals(ctx context.Context, userID uint) (*Goals, error)
}

// BotService handles telegram bot operations
type BotService interface {
	Start(ctx context.Context) error
	Stop()
}
