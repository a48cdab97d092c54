package services

import (
	"context"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

type UserService struct {
	users domain.UserStore
}

func NewUserService(users domain.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	return s.users.GetOrCreateUser(ctx, telegramID, username, firstName, lastName)
}

func (s *UserService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	return s.users.GetUserByTelegramID(ctx, telegramID)
}

// SetLevel accepts only the levels a user can aim for (strict or relaxed).
func (s *UserService) SetLevel(ctx context.Context, user *domain.User, raw string) (diet.Level, error) {
	level, err := diet.ParseLevel(raw)
	if err != nil {
		return 0, err
	}
	if level != diet.Strict && level != diet.Relaxed {
		return 0, apperrors.NewInvalidError(apperrors.CodeInvalidEnum, "level must be strict or relaxed, got %q", raw)
	}
	if err := s.users.SetPreferredLevel(ctx, user.ID, level); err != nil {
		return 0, err
	}
	user.PreferredLevel = level
	logger.WithUser(user.TelegramID).Info("Diet level changed", "level", level.String())
	return level, nil
}

// SetGoals stores daily targets. All values must be positive.
func (s *UserService) SetGoals(ctx context.Context, user *domain.User, calories, proteinG, fatG int) (*domain.Goals, error) {
	if calories <= 0 || proteinG <= 0 || fatG <= 0 {
		return nil, apperrors.NewInvalidError(apperrors.CodeInvalidInput,
			"goals must be positive (kcal=%d protein=%d fat=%d)", calories, proteinG, fatG)
	}
	goals := domain.Goals{UserID: user.ID, Calories: calories, ProteinG: proteinG, FatG: fatG}
	if err := s.users.SetGoals(ctx, goals); err != nil {
		return nil, err
	}
	return &goals, nil
}

func (s *UserService) GetGoals(ctx context.Context, user *domain.User) (*domain.Goals, error) {
	return s.users.GetGoals(ctx, user.ID)
}
