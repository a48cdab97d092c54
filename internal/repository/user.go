package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vladimiradmaev/carnivore-helper/internal/database"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// UserRepository handles user data operations
type UserRepository struct {
	db           *gorm.DB
	defaultLevel diet.Level
}

// NewUserRepository creates a new user repository. New users start at
// defaultLevel.
func NewUserRepository(db *gorm.DB, defaultLevel diet.Level) *UserRepository {
	return &UserRepository{db: db, defaultLevel: defaultLevel}
}

var _ domain.UserStore = (*UserRepository)(nil)

// GetOrCreateUser gets an existing user or creates a new one
func (r *UserRepository) GetOrCreateUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	var user database.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)
	if result.Error == nil {
		return user.ToDomain(), nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(result.Error)
	}

	user = database.User{
		TelegramID:     telegramID,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		PreferredLevel: r.defaultLevel.String(),
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return user.ToDomain(), nil
}

// GetUserByTelegramID gets a user by their Telegram ID
func (r *UserRepository) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return user.ToDomain(), nil
}

// SetPreferredLevel updates the level meals are judged against
func (r *UserRepository) SetPreferredLevel(ctx context.Context, userID uint, level diet.Level) error {
	err := r.db.WithContext(ctx).Model(&database.User{}).Where("id = ?", userID).
		Update("preferred_level", level.String()).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// SetGoals upserts the user's daily targets
func (r *UserRepository) SetGoals(ctx context.Context, goals domain.Goals) error {
	rec := database.Goals{
		UserID:   goals.UserID,
		Calories: goals.Calories,
		ProteinG: goals.ProteinG,
		FatG:     goals.FatG,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"calories", "protein_g", "fat_g", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// GetGoals returns nil when the user never set goals
func (r *UserRepository) GetGoals(ctx context.Context, userID uint) (*domain.Goals, error) {
	var rec database.Goals
	err := r.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &domain.Goals{UserID: rec.UserID, Calories: rec.Calories, ProteinG: rec.ProteinG, FatG: rec.FatG}, nil
}
