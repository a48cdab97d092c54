package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

func TestMealRecordStampsSchemaVersion(t *testing.T) {
	meal := domain.MealEvent{
		UserID:     1,
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		Level:      diet.Dirty,
		Source:     domain.SourcePhoto,
		Processing: diet.Processed,
	}
	rec := NewMealRecord(meal)
	assert.Equal(t, domain.SchemaVersion, rec.SchemaVersion)
	assert.Equal(t, "dirty", rec.Level)

	back, err := rec.ToDomain()
	require.NoError(t, err)
	assert.Equal(t, meal, back)
}

func TestMealRecordRejectsUnknownEnums(t *testing.T) {
	_, err := MealRecord{Level: "keto", Source: "text", Processing: "whole"}.ToDomain()
	assert.Equal(t, apperrors.CodeInvalidEnum, apperrors.CodeOf(err))

	_, err = SymptomRecord{Type: "hiccups", Severity: 2}.ToDomain()
	assert.Equal(t, apperrors.CodeInvalidEnum, apperrors.CodeOf(err))
}

func TestUserFallsBackToStrict(t *testing.T) {
	u := User{TelegramID: 9, PreferredLevel: "???"}.ToDomain()
	assert.Equal(t, diet.Strict, u.PreferredLevel)
}
