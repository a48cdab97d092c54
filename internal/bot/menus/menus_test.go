package menus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/carnivore-helper/internal/analytics"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

func TestEscapeMarkdownAndTruncate(t *testing.T) {
	assert.Equal(t, `bacon\_bits \*crispy\*`, EscapeMarkdown("bacon_bits *crispy*"))
	assert.Equal(t, "ribeye", Truncate("ribeye", 10))
	assert.Equal(t, "ribe…", Truncate("ribeye", 5))
	assert.Equal(t, "crè…", Truncate("crème brûlée", 4))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "🟩🟩🟩🟩🟩⬜⬜⬜⬜⬜ 50%", progressBar(75, 150))
	assert.Equal(t, "🟩🟩🟩🟩🟩🟩🟩🟩🟩🟩 100%", progressBar(300, 150))
	assert.Equal(t, "⬜⬜⬜⬜⬜⬜⬜⬜⬜⬜ 0%", progressBar(10, 0))
}

func TestDailyStatsWithAndWithoutGoals(t *testing.T) {
	r := &services.DailyReport{Stats: analytics.Daily{
		Date:           time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		TotalProteinG:  75,
		TotalFatG:      90,
		TotalCalories:  1100,
		MealCount:      2,
		ComplianceRate: 50,
		FirstMealTime:  "09:00",
		LastMealTime:   "18:30",
	}}

	text := DailyStats(r)
	assert.Contains(t, text, "/goals")
	assert.Contains(t, text, "09:00 - 18:30")
	assert.Contains(t, text, "⚠️ *Compliance*: 50%")

	r.Goals = &domain.Goals{Calories: 2000, ProteinG: 150, FatG: 140}
	text = DailyStats(r)
	assert.Contains(t, text, "75/150g")
	assert.Contains(t, text, "🟩🟩🟩🟩🟩⬜⬜⬜⬜⬜ 50%")
	assert.Contains(t, text, "Fat:protein*: 1.20")
}

func TestWeeklyShowsWeightTrend(t *testing.T) {
	w := analytics.Weekly{
		Days:           make([]analytics.Daily, 7),
		DaysWithData:   3,
		TotalMeals:     6,
		ComplianceRate: 83.3,
		WeightChangeKg: -1.2,
		TopSymptoms:    []analytics.SymptomCount{{Type: domain.SymptomHeadache, Count: 2}},
	}
	text := Weekly(w)
	assert.Contains(t, text, "Last 7 days")
	assert.Contains(t, text, "📉 -1.2 kg")
	assert.Contains(t, text, "headache: 2x")
	assert.NotContains(t, text, "Fasts")
}

func TestMetabolicBar(t *testing.T) {
	ratio := 1.1
	text := Metabolic(analytics.Metabolic{
		Score:              64,
		Label:              analytics.LabelAdaptingWell,
		ElectrolyteRisk:    analytics.RiskMedium,
		EnergyTrend:        analytics.TrendImproving,
		WeightTrend:        analytics.WeightStable,
		AvgFatProteinRatio: &ratio,
	})
	assert.Contains(t, text, "🟢🟢🟢🟢🟢🟢⚪⚪⚪⚪ 64%")
	assert.Contains(t, text, "🟡 Electrolyte risk: medium")
	assert.Contains(t, text, "📈 Energy trend: improving")
	assert.Contains(t, text, "Fat:protein: 1.10")
	assert.NotContains(t, text, "*Fasting*")
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{apperrors.ErrNotFood, "doesn't look like food"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrRateLimitExceeded), "Too many requests"},
		{apperrors.ErrNoActiveFast, "No active fast"},
		{apperrors.NewInvalidError(apperrors.CodeInvalidWeight, "nope"), "between 30 and 300"},
		{apperrors.NewSchemaError([]string{"'summary' is required"}), "couldn't read"},
		{apperrors.NewValidationError("empty meal description"), "⚠️ empty meal description"},
		{apperrors.NewExternalAPIError(fmt.Errorf("boom"), "gemini"), "unavailable"},
		{apperrors.NewTimeoutError(context.DeadlineExceeded, "openai"), "took too long"},
		{apperrors.ErrFastAlreadyActive, "already running"},
		{apperrors.NewDatabaseError(fmt.Errorf("conn reset")), "couldn't reach your log"},
		{fmt.Errorf("boom"), "Something went wrong"},
	}
	for _, tc := range cases {
		assert.Contains(t, ErrorMessage(tc.err), tc.want, tc.err.Error())
	}
}

func TestWeightLoggedTrend(t *testing.T) {
	gain := 0.5
	text := WeightLogged(&services.WeightEntry{Event: domain.WeightEvent{WeightKg: 90}, ChangeKg: &gain})
	assert.Contains(t, text, "90.0 kg")
	assert.Contains(t, text, "📈 Change: +0.5 kg")

	assert.NotContains(t, WeightLogged(&services.WeightEntry{Event: domain.WeightEvent{WeightKg: 90}}), "Change")
}
