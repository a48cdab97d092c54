package database

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	TelegramID     int64 `gorm:"uniqueIndex"`
	Username       string
	FirstName      string
	LastName       string
	PreferredLevel string `gorm:"default:strict"`
}

type Goals struct {
	UserID    uint `gorm:"primaryKey"`
	Calories  int
	ProteinG  int
	FatG      int
	UpdatedAt time.Time
}

type MealRecord struct {
	gorm.Model
	UserID            uint      `gorm:"index:idx_meal_user_ts,priority:1"`
	Timestamp         time.Time `gorm:"index:idx_meal_user_ts,priority:2"`
	Summary           string
	Ingredients       []string `gorm:"serializer:json"`
	Quantities        []string `gorm:"serializer:json"`
	Level             string
	CaloriesKcal      float64
	ProteinG          float64
	FatG              float64
	CarbsG            float64
	BreaksFast        bool
	Source            string
	Processing        string
	NeedsConfirmation bool
	Warnings          []string `gorm:"serializer:json"`
	RulesetVersion    string
	SchemaVersion     int
}

type FastingRecord struct {
	gorm.Model
	UserID    uint      `gorm:"index:idx_fast_user_start,priority:1"`
	StartTime time.Time `gorm:"index:idx_fast_user_start,priority:2"`
	EndTime   *time.Time
}

type SymptomRecord struct {
	gorm.Model
	UserID    uint      `gorm:"index:idx_symptom_user_ts,priority:1"`
	Timestamp time.Time `gorm:"index:idx_symptom_user_ts,priority:2"`
	Type      string
	Severity  int
	Notes     string
}

type WeightRecord struct {
	gorm.Model
	UserID    uint      `gorm:"index:idx_weight_user_ts,priority:1"`
	Timestamp time.Time `gorm:"index:idx_weight_user_ts,priority:2"`
	WeightKg  float64
	Notes     string
}

type VoiceNote struct {
	gorm.Model
	UserID        uint `gorm:"index"`
	Timestamp     time.Time
	Transcription string
	FoodDetected  bool
}

// Models lists every table AutoMigrate manages.
func Models() []interface{} {
	return []interface{}{
		&User{}, &Goals{}, &MealRecord{}, &FastingRecord{},
		&SymptomRecord{}, &WeightRecord{}, &VoiceNote{},
	}
}
