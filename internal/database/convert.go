package database

import (
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
)

func NewMealRecord(m domain.MealEvent) MealRecord {
	return MealRecord{
		UserID:            m.UserID,
		Timestamp:         m.Timestamp,
		Summary:           m.Summary,
		Ingredients:       m.Ingredients,
		Quantities:        m.Quantities,
		Level:             m.Level.String(),
		CaloriesKcal:      m.CaloriesKcal,
		ProteinG:          m.ProteinG,
		FatG:              m.FatG,
		CarbsG:            m.CarbsG,
		BreaksFast:        m.BreaksFast,
		Source:            string(m.Source),
		Processing:        string(m.Processing),
		NeedsConfirmation: m.NeedsConfirmation,
		Warnings:          m.Warnings,
		RulesetVersion:    m.RulesetVersion,
		SchemaVersion:     domain.SchemaVersion,
	}
}

// ToDomain fails on enum values the current code does not know.
func (r MealRecord) ToDomain() (domain.MealEvent, error) {
	level, err := diet.ParseLevel(r.Level)
	if err != nil {
		return domain.MealEvent{}, err
	}
	source, err := domain.ParseEventSource(r.Source)
	if err != nil {
		return domain.MealEvent{}, err
	}
	processing, err := diet.ParseProcessingLevel(r.Processing)
	if err != nil {
		return domain.MealEvent{}, err
	}
	return domain.MealEvent{
		ID:                r.ID,
		UserID:            r.UserID,
		Timestamp:         r.Timestamp,
		Summary:           r.Summary,
		Ingredients:       r.Ingredients,
		Quantities:        r.Quantities,
		Level:             level,
		CaloriesKcal:      r.CaloriesKcal,
		ProteinG:          r.ProteinG,
		FatG:              r.FatG,
		CarbsG:            r.CarbsG,
		BreaksFast:        r.BreaksFast,
		Source:            source,
		Processing:        processing,
		NeedsConfirmation: r.NeedsConfirmation,
		Warnings:          r.Warnings,
		RulesetVersion:    r.RulesetVersion,
	}, nil
}

func (r FastingRecord) ToDomain() domain.FastingEvent {
	return domain.FastingEvent{ID: r.ID, UserID: r.UserID, Start: r.StartTime, End: r.EndTime}
}

func (r SymptomRecord) ToDomain() (domain.SymptomEvent, error) {
	typ, err := domain.ParseSymptomType(r.Type)
	if err != nil {
		return domain.SymptomEvent{}, err
	}
	return domain.SymptomEvent{
		ID:        r.ID,
		UserID:    r.UserID,
		Timestamp: r.Timestamp,
		Type:      typ,
		Severity:  r.Severity,
		Notes:     r.Notes,
	}, nil
}

func (r WeightRecord) ToDomain() domain.WeightEvent {
	return domain.WeightEvent{
		ID:        r.ID,
		UserID:    r.UserID,
		Timestamp: r.Timestamp,
		WeightKg:  r.WeightKg,
		Notes:     r.Notes,
	}
}

func (r VoiceNote) ToDomain() domain.VoiceNote {
	return domain.VoiceNote{
		ID:            r.ID,
		UserID:        r.UserID,
		Timestamp:     r.Timestamp,
		Transcription: r.Transcription,
		FoodDetected:  r.FoodDetected,
	}
}

// ToDomain maps an unknown stored level to the strict default.
func (u User) ToDomain() *domain.User {
	level, err := diet.ParseLevel(u.PreferredLevel)
	if err != nil {
		level = diet.Strict
	}
	return &domain.User{
		ID:             u.ID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		TelegramID:     u.TelegramID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PreferredLevel: level,
	}
}
