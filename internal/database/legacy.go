package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/carnivore-helper/internal/database/migrations"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

const (
	legacyMealsTable   = "meals"
	legacyMealsArchive = "meals_v1"
)

// legacyMealRow is a row of the version 1 meals table. user_id there is
// the telegram id.
type legacyMealRow struct {
	ID          uint
	UserID      int64
	Date        string
	Time        string
	Summary     string
	Calories    int
	Source      string
	IsCarnivore bool
	Macros      *string
}

func registerLegacyMeals(loc *time.Location) {
	migrations.Register("0002_legacy_meals", func(db *gorm.DB) error {
		return migrateLegacyMeals(db, loc)
	}, nil)
}

// migrateLegacyMeals copies version 1 meals into meal_records and archives
// the old table. Rows that cannot be converted are logged and left behind
// in the archive.
func migrateLegacyMeals(db *gorm.DB, loc *time.Location) error {
	if !db.Migrator().HasTable(legacyMealsTable) {
		return nil
	}

	var rows []legacyMealRow
	if err := db.Table(legacyMealsTable).Order("id").Find(&rows).Error; err != nil {
		return fmt.Errorf("read legacy meals: %w", err)
	}

	users := make(map[int64]uint)
	migrated, skipped := 0, 0
	for _, row := range rows {
		userID, ok := users[row.UserID]
		if !ok {
			u, err := legacyUser(db, row.UserID)
			if err != nil {
				return err
			}
			userID = u
			users[row.UserID] = u
		}

		legacy := domain.LegacyMeal{
			UserID:      userID,
			Date:        row.Date,
			Time:        row.Time,
			Summary:     row.Summary,
			Calories:    row.Calories,
			Source:      row.Source,
			IsCarnivore: row.IsCarnivore,
		}
		if row.Macros != nil {
			legacy.Macros = *row.Macros
		}

		meal, err := domain.MigrateLegacyMeal(legacy, loc)
		if err != nil {
			logger.Warn("Skipping legacy meal", "id", row.ID, "error", err)
			skipped++
			continue
		}
		record := NewMealRecord(meal)
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("insert migrated meal %d: %w", row.ID, err)
		}
		migrated++
	}

	if err := db.Migrator().RenameTable(legacyMealsTable, legacyMealsArchive); err != nil {
		return fmt.Errorf("archive legacy meals: %w", err)
	}
	logger.Info("Migrated legacy meals", "migrated", migrated, "skipped", skipped)
	return nil
}

func legacyUser(db *gorm.DB, telegramID int64) (uint, error) {
	var u User
	err := db.Where("telegram_id = ?", telegramID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = User{TelegramID: telegramID, PreferredLevel: "strict"}
		err = db.Create(&u).Error
	}
	if err != nil {
		return 0, fmt.Errorf("resolve legacy user %d: %w", telegramID, err)
	}
	return u.ID, nil
}
