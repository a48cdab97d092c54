package interfaces

import (
	"context"

	"github.com/vladimiradmaev/carnivore-helper/internal/analytics"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	SetLevel(ctx context.Context, user *domain.User, raw string) (diet.Level, error)
	SetGoals(ctx context.Context, user *domain.User, calories, proteinG, fatG int) (*domain.Goals, error)
	GetGoals(ctx context.Context, user *domain.User) (*domain.Goals, error)
}

// MealServiceInterface defines the contract for meal logging
type MealServiceInterface interface {
	LogMealFromText(ctx context.Context, user *domain.User, text string, source domain.EventSource) (*services.MealReport, error)
	LogMealFromPhoto(ctx context.Context, user *domain.User, imageURL string) (*services.MealReport, error)
	CheckIngredients(user *domain.User, ingredients []string) diet.ValidationResult
}

// TrackingServiceInterface defines the contract for fasts, symptoms and weight
type TrackingServiceInterface interface {
	ToggleFast(ctx context.Context, user *domain.User) (*services.FastToggle, error)
	FastStatus(ctx context.Context, user *domain.User) (*services.FastStatus, error)
	LogSymptom(ctx context.Context, user *domain.User, rawType string, severity int, notes string) (*domain.SymptomEvent, error)
	SymptomsToday(ctx context.Context, user *domain.User) ([]domain.SymptomEvent, error)
	LogWeight(ctx context.Context, user *domain.User, kg float64) (*services.WeightEntry, error)
	WeightHistory(ctx context.Context, user *domain.User, limit int) ([]domain.WeightEvent, error)
	NotesToday(ctx context.Context, user *domain.User) ([]domain.VoiceNote, error)
}

// AnalyticsServiceInterface defines the contract for reports
type AnalyticsServiceInterface interface {
	Daily(ctx context.Context, user *domain.User) (*services.DailyReport, error)
	Weekly(ctx context.Context, user *domain.User, days int) (analytics.Weekly, error)
	Metabolic(ctx context.Context, user *domain.User) (analytics.Metabolic, error)
	Export(ctx context.Context, user *domain.User, format services.ExportFormat, period services.ExportPeriod) (*services.ExportFile, error)
}

// AdvisorServiceInterface defines the contract for AI advice
type AdvisorServiceInterface interface {
	Suggest(ctx context.Context, user *domain.User) (*services.Suggestion, error)
	Recipe(ctx context.Context, user *domain.User, preference string) (*services.Recipe, error)
	Plan(ctx context.Context, user *domain.User, span services.PlanSpan) (string, error)
}

var (
	_ UserServiceInterface      = (*services.UserService)(nil)
	_ MealServiceInterface      = (*services.MealService)(nil)
	_ TrackingServiceInterface  = (*services.TrackingService)(nil)
	_ AnalyticsServiceInterface = (*services.AnalyticsService)(nil)
	_ AdvisorServiceInterface   = (*services.AdvisorService)(nil)
)
