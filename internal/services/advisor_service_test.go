package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/repository"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newAdvisor(t *testing.T, gen Generator) (*AdvisorService, *repository.MemoryEventStore, *repository.MemoryUserStore, *domain.User) {
	t.Helper()
	events := repository.NewMemoryEventStore()
	users := repository.NewMemoryUserStore(diet.Strict)
	user := newUser(t, users, diet.Strict)
	analytics := NewAnalyticsService(events, users, time.UTC)
	analytics.now = fixedNow
	return NewAdvisorService(gen, analytics, nil, nil), events, users, user
}

func TestSuggestUsesRemainingGoals(t *testing.T) {
	ctx := context.Background()
	gen := &fakeGenerator{reply: "Ribeye, 400g"}
	svc, events, users, user := newAdvisor(t, gen)

	meal := domain.MealEvent{UserID: user.ID, Timestamp: clock.Add(-time.Hour), ProteinG: 100, FatG: 180, CaloriesKcal: 1200}
	require.NoError(t, events.AppendMeal(ctx, &meal))
	require.NoError(t, users.SetGoals(ctx, domain.Goals{UserID: user.ID, Calories: 2000, ProteinG: 150, FatG: 140}))

	s, err := svc.Suggest(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, &Remaining{Calories: 800, ProteinG: 50, FatG: 0}, s.Remaining)
	assert.Equal(t, "Ribeye, 400g", s.Text)
	assert.False(t, s.Fallback)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "800 kcal")
	assert.Contains(t, gen.prompts[0], "50g protein")
}

func TestSuggestFallsBackWhenModelFails(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewExternalAPIError(errors.New("503"), "gemini")}
	svc, _, _, user := newAdvisor(t, gen)

	s, err := svc.Suggest(context.Background(), user)
	require.NoError(t, err)
	assert.Nil(t, s.Remaining)
	assert.True(t, s.Fallback)
	assert.Equal(t, FallbackSuggestion, s.Text)
	assert.Equal(t, classicSuggestionPrompt, gen.prompts[0])
}

func TestRecipeIsJudgedByRulesEngine(t *testing.T) {
	gen := &fakeGenerator{reply: "Here you go:\n```json\n" +
		`{"name": "Glazed ribeye", "ingredients": ["300g ribeye", "1 tbsp ketchup"], "steps": ["sear", "rest"],` +
		` "time_minutes": 15, "estimated_macros": {"calories": 850, "protein_g": 60, "fat_g": 65}}` + "\n```"}
	svc, _, _, user := newAdvisor(t, gen)

	r, err := svc.Recipe(context.Background(), user, "picanha")
	require.NoError(t, err)
	assert.Equal(t, "Glazed ribeye", r.Name)
	assert.Equal(t, 15, r.TimeMinutes)
	assert.Equal(t, 850.0, r.Calories)
	assert.False(t, r.Validation.IsValid)
	assert.Equal(t, []string{"1 tbsp ketchup"}, r.Validation.Forbidden)
	assert.Empty(t, r.Raw)
	assert.Contains(t, gen.prompts[0], "User preference: picanha")
	assert.Contains(t, gen.prompts[0], "strict carnivore recipe")
}

func TestRecipeKeepsFreeTextReply(t *testing.T) {
	svc, _, _, user := newAdvisor(t, &fakeGenerator{reply: "Sear a ribeye in butter."})

	r, err := svc.Recipe(context.Background(), user, "")
	require.NoError(t, err)
	assert.Equal(t, "Sear a ribeye in butter.", r.Raw)
	assert.Empty(t, r.Ingredients)
}

func TestPlanPropagatesProviderErrors(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewTimeoutError(context.DeadlineExceeded, "gemini")}
	svc, _, _, user := newAdvisor(t, gen)

	_, err := svc.Plan(context.Background(), user, PlanWeek)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Contains(t, gen.prompts[0], "ONE week")
}

func TestAdvisorIsRateLimited(t *testing.T) {
	svc, _, _, user := newAdvisor(t, &fakeGenerator{reply: "ok"})
	svc.limiter = NewRateLimiter(1, 1)

	_, err := svc.Plan(context.Background(), user, PlanTomorrow)
	require.NoError(t, err)
	_, err = svc.Plan(context.Background(), user, PlanTomorrow)
	assert.ErrorIs(t, err, apperrors.ErrRateLimitExceeded)
}

func TestWrapProviderErrClassifiesFailures(t *testing.T) {
	assert.ErrorIs(t, wrapProviderErr(context.DeadlineExceeded, "gemini"), apperrors.ErrTimeout)
	assert.ErrorIs(t, wrapProviderErr(errors.New("quota"), "openai"), apperrors.ErrExternalAPI)

	schema := apperrors.NewSchemaError([]string{"empty reply"})
	assert.Same(t, schema, wrapProviderErr(schema, "gemini"))

	_, err := parseGenerated("  \n")
	assert.Equal(t, apperrors.CodeInvalidSchema, apperrors.CodeOf(err))
}
