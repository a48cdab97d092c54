package services

import (
	"context"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// MealReport is what the bot shows after a meal has been logged.
type MealReport struct {
	Meal       domain.MealEvent
	Validation diet.ValidationResult
	Confidence string
}

type MealService struct {
	extractor Extractor
	events    domain.EventStore
	matcher   *diet.Matcher
	limiter   *RateLimiter
	now       func() time.Time
}

func NewMealService(extractor Extractor, events domain.EventStore, matcher *diet.Matcher, limiter *RateLimiter) *MealService {
	if matcher == nil {
		matcher = diet.NewMatcher(nil)
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 1)
	}
	return &MealService{
		extractor: extractor,
		events:    events,
		matcher:   matcher,
		limiter:   limiter,
		now:       time.Now,
	}
}

// LogMealFromText extracts a meal from a typed or transcribed message.
// Messages that are not about food are kept as notes and ErrNotFood is
// returned.
func (s *MealService) LogMealFromText(ctx context.Context, user *domain.User, text string, source domain.EventSource) (*MealReport, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("empty meal description")
	}
	if err := s.limiter.Allow(user.TelegramID); err != nil {
		return nil, err
	}

	extraction, err := s.extractor.ExtractMeal(ctx, text)
	if err != nil {
		return nil, err
	}

	if !extraction.IsFood || source == domain.SourceVoice {
		note := domain.VoiceNote{
			UserID:        user.ID,
			Timestamp:     s.now(),
			Transcription: text,
			FoodDetected:  extraction.IsFood,
		}
		if err := s.events.AppendVoiceNote(ctx, &note); err != nil {
			return nil, err
		}
	}
	if !extraction.IsFood {
		return nil, apperrors.ErrNotFood
	}

	return s.RecordMeal(ctx, user, extraction, source)
}

// LogMealFromPhoto runs the photo through the vision models.
func (s *MealService) LogMealFromPhoto(ctx context.Context, user *domain.User, imageURL string) (*MealReport, error) {
	if err := s.limiter.Allow(user.TelegramID); err != nil {
		return nil, err
	}

	extraction, err := s.extractor.ExtractMealFromImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	if !extraction.IsFood {
		return nil, apperrors.ErrNotFood
	}

	return s.RecordMeal(ctx, user, extraction, domain.SourcePhoto)
}

// RecordMeal validates the extracted ingredients against the user's level
// and appends the meal.
func (s *MealService) RecordMeal(ctx context.Context, user *domain.User, extraction *MealExtraction, source domain.EventSource) (*MealReport, error) {
	ingredients := mergeIngredients(extraction.Ingredients, extraction.ForbiddenIngredients)

	result := s.matcher.Validate(ingredients, user.PreferredLevel)
	// Flagged items are often categories ("processed sauce"), so only the
	// listed ingredients are graded.
	processing := s.matcher.EstimateProcessing(extraction.Ingredients)

	meal, err := domain.NewMealEvent(domain.MealInput{
		UserID:       user.ID,
		Timestamp:    s.now(),
		Summary:      extraction.Summary,
		Ingredients:  ingredients,
		Quantities:   extraction.Quantities,
		CaloriesKcal: extraction.Calories,
		ProteinG:     extraction.ProteinG,
		FatG:         extraction.FatG,
		CarbsG:       extraction.CarbsG,
		Source:       source,
	}, result, processing)
	if err != nil {
		return nil, err
	}

	if err := s.events.AppendMeal(ctx, &meal); err != nil {
		return nil, err
	}

	logger.WithUser(user.TelegramID).Info("Meal logged",
		"meal_id", meal.ID,
		"level", meal.Level.String(),
		"ingredients", len(meal.Ingredients),
		"processing", string(meal.Processing),
		"needs_confirmation", meal.NeedsConfirmation)

	return &MealReport{Meal: meal, Validation: result, Confidence: extraction.Confidence}, nil
}

// CheckIngredients judges a list without logging anything.
func (s *MealService) CheckIngredients(user *domain.User, ingredients []string) diet.ValidationResult {
	return s.matcher.Validate(ingredients, user.PreferredLevel)
}

// mergeIngredients adds items the model flagged as forbidden but left out of
// the ingredient list, so the rules engine sees them.
func mergeIngredients(ingredients, flagged []string) []string {
	out := append([]string(nil), ingredients...)
	seen := make(map[string]bool, len(out))
	for _, in := range out {
		seen[diet.Normalize(in)] = true
	}
	for _, f := range flagged {
		n := diet.Normalize(f)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, f)
	}
	return out
}
