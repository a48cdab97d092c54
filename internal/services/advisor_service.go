package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

const advisorSystemPrompt = `You are a specialized carnivore diet assistant.

Hard rules:
- NEVER suggest vegetables, tubers, grains, fruits
- NEVER suggest potatoes, rice, pasta, bread
- NEVER suggest plant oils or sauces
- NEVER give generic nutrition advice

Allowed suggestions:
- Meat-based meals only (beef, pork, lamb, fish, poultry)
- Eggs, butter, animal fats
- Minimal ingredients
- Prefer fat over protein`

const suggestionPrompt = `I eat carnivore and need my next meal.

Still missing today:
- %d kcal
- %dg protein
- %dg fat

RULES:
- Suggest ONE carnivore meal that fits what is missing
- Only meat, eggs, bacon, butter, tallow
- Give the dish name and estimated macros
- Be short and specific`

const classicSuggestionPrompt = "Suggest one classic carnivore meal. Be short and specific."

// FallbackSuggestion is served when no model answers.
const FallbackSuggestion = "Ribeye with butter and salt. Classic carnivore."

const recipePrompt = `Create a %s carnivore recipe.

%s

MANDATORY RULES:
- At most 4 ingredients
- Animal products only: meat, eggs, butter, tallow, bacon
- FORBIDDEN: vegetables, grains, fruit, sauces, spices other than salt
- Prefer beef or other ruminants

Respond with JSON only:
{
  "name": "Recipe name",
  "ingredients": ["300g ribeye", "20g butter"],
  "steps": ["step 1", "step 2"],
  "time_minutes": 20,
  "estimated_macros": {"calories": 800, "protein_g": 50, "fat_g": 60},
  "tips": "optional tip"
}`

const planPrompt = `Create a %s carnivore meal plan for %s.

RULES:
- Only meat, eggs, bacon, butter, tallow, salt, water
- Forbidden: vegetables, grains, fruit, sauces
- Vary the cuts (ribeye, sirloin, short ribs, ground beef, lamb)
- Estimate calories per meal
- Plain text with short lines and emojis`

// Remaining is what is left of today's goals, never negative.
type Remaining struct {
	Calories int
	ProteinG int
	FatG     int
}

type Suggestion struct {
	// Remaining is nil when the user has no goals.
	Remaining *Remaining
	Text      string
	Fallback  bool
}

// Recipe is a generated recipe judged by the rules engine. When the model
// answers with something other than JSON only Raw is set.
type Recipe struct {
	Name        string
	Ingredients []string
	Steps       []string
	TimeMinutes int
	Calories    float64
	ProteinG    float64
	FatG        float64
	Tips        string
	Validation  diet.ValidationResult
	Raw         string
}

type recipeReply struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	TimeMinutes int      `json:"time_minutes"`
	Macros      struct {
		Calories float64 `json:"calories"`
		ProteinG float64 `json:"protein_g"`
		FatG     float64 `json:"fat_g"`
	} `json:"estimated_macros"`
	Tips string `json:"tips"`
}

type PlanSpan string

const (
	PlanTomorrow PlanSpan = "tomorrow"
	PlanWeek     PlanSpan = "week"
)

// AdvisorService answers the advice commands through the AI providers.
type AdvisorService struct {
	generator Generator
	analytics *AnalyticsService
	matcher   *diet.Matcher
	limiter   *RateLimiter
}

func NewAdvisorService(generator Generator, analytics *AnalyticsService, matcher *diet.Matcher, limiter *RateLimiter) *AdvisorService {
	if matcher == nil {
		matcher = diet.NewMatcher(nil)
	}
	if limiter == nil {
		limiter = NewRateLimiter(0, 1)
	}
	return &AdvisorService{generator: generator, analytics: analytics, matcher: matcher, limiter: limiter}
}

// Suggest proposes the next meal against what is left of today's goals.
// A failed model call is not an error: the fixed fallback is served.
func (s *AdvisorService) Suggest(ctx context.Context, user *domain.User) (*Suggestion, error) {
	if err := s.limiter.Allow(user.TelegramID); err != nil {
		return nil, err
	}
	report, err := s.analytics.Daily(ctx, user)
	if err != nil {
		return nil, err
	}

	out := &Suggestion{}
	prompt := classicSuggestionPrompt
	if report.Goals != nil {
		out.Remaining = &Remaining{
			Calories: remaining(report.Goals.Calories, report.Stats.TotalCalories),
			ProteinG: remaining(report.Goals.ProteinG, report.Stats.TotalProteinG),
			FatG:     remaining(report.Goals.FatG, report.Stats.TotalFatG),
		}
		prompt = fmt.Sprintf(suggestionPrompt, out.Remaining.Calories, out.Remaining.ProteinG, out.Remaining.FatG)
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logger.WithUser(user.TelegramID).Warn("Suggestion failed, serving fallback", "error", err)
		out.Text, out.Fallback = FallbackSuggestion, true
		return out, nil
	}
	out.Text = text
	return out, nil
}

func remaining(goal int, eaten float64) int {
	return max(0, goal-int(eaten))
}

// Recipe asks for a recipe at the user's level and validates its
// ingredients instead of trusting the model's own verdict.
func (s *AdvisorService) Recipe(ctx context.Context, user *domain.User, preference string) (*Recipe, error) {
	if err := s.limiter.Allow(user.TelegramID); err != nil {
		return nil, err
	}

	pref := "No specific preference."
	if p := strings.TrimSpace(preference); p != "" {
		pref = "User preference: " + p
	}
	text, err := s.generator.Generate(ctx, fmt.Sprintf(recipePrompt, levelWord(user.PreferredLevel), pref))
	if err != nil {
		return nil, err
	}

	var reply recipeReply
	raw := extractJSON(text)
	if raw == "" || json.Unmarshal([]byte(raw), &reply) != nil || len(reply.Ingredients) == 0 {
		return &Recipe{Raw: text}, nil
	}

	r := &Recipe{
		Name:        strings.TrimSpace(reply.Name),
		Ingredients: reply.Ingredients,
		Steps:       reply.Steps,
		TimeMinutes: reply.TimeMinutes,
		Calories:    reply.Macros.Calories,
		ProteinG:    reply.Macros.ProteinG,
		FatG:        reply.Macros.FatG,
		Tips:        strings.TrimSpace(reply.Tips),
		Validation:  s.matcher.Validate(reply.Ingredients, user.PreferredLevel),
	}
	logger.WithUser(user.TelegramID).Info("Recipe generated",
		"ingredients", len(r.Ingredients), "level", r.Validation.Level.String())
	return r, nil
}

// Plan writes a meal plan for tomorrow or the coming week.
func (s *AdvisorService) Plan(ctx context.Context, user *domain.User, span PlanSpan) (string, error) {
	if err := s.limiter.Allow(user.TelegramID); err != nil {
		return "", err
	}
	topic := "ONE day (tomorrow)"
	if span == PlanWeek {
		topic = "ONE week (7 days)"
	}
	return s.generator.Generate(ctx, fmt.Sprintf(planPrompt, levelWord(user.PreferredLevel), topic))
}

func levelWord(l diet.Level) string {
	if l == diet.Relaxed {
		return "relaxed"
	}
	return "strict"
}
