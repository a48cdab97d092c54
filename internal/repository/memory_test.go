package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryMealsWindowAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	for _, m := range []domain.MealEvent{
		{UserID: 1, Timestamp: base.Add(2 * time.Hour), Ingredients: []string{"beef"}},
		{UserID: 1, Timestamp: base},
		{UserID: 2, Timestamp: base.Add(time.Hour)},
		{UserID: 1, Timestamp: base.Add(24 * time.Hour)},
	} {
		m := m
		require.NoError(t, s.AppendMeal(ctx, &m))
		assert.NotZero(t, m.ID)
	}

	meals, err := s.ListMeals(ctx, 1, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, base, meals[0].Timestamp)
	assert.Equal(t, base.Add(2*time.Hour), meals[1].Timestamp)

	first, err := s.FirstMealAt(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, base, *first)

	none, err := s.FirstMealAt(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMemoryVoiceNotesWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	for _, n := range []domain.VoiceNote{
		{UserID: 1, Timestamp: base.Add(time.Hour), Transcription: "slept badly"},
		{UserID: 1, Timestamp: base, Transcription: "ribeye", FoodDetected: true},
		{UserID: 2, Timestamp: base, Transcription: "other user"},
		{UserID: 1, Timestamp: base.Add(-time.Minute), Transcription: "yesterday"},
	} {
		n := n
		require.NoError(t, s.AppendVoiceNote(ctx, &n))
	}

	notes, err := s.ListVoiceNotes(ctx, 1, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "ribeye", notes[0].Transcription)
	assert.True(t, notes[0].FoodDetected)
	assert.Equal(t, "slept badly", notes[1].Transcription)
}

func TestMemoryMealIsCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()
	m := domain.MealEvent{UserID: 1, Timestamp: base, Ingredients: []string{"beef"}}
	require.NoError(t, s.AppendMeal(ctx, &m))

	m.Ingredients[0] = "rice"
	meals, _ := s.ListMeals(ctx, 1, base, base.Add(time.Minute))
	assert.Equal(t, "beef", meals[0].Ingredients[0])
}

func TestMemoryFastLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	active, err := s.ActiveFast(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, active)

	f := domain.FastingEvent{UserID: 1, Start: base}
	require.NoError(t, s.StartFast(ctx, &f))

	dup := domain.FastingEvent{UserID: 1, Start: base.Add(time.Hour)}
	assert.ErrorIs(t, s.StartFast(ctx, &dup), apperrors.ErrFastAlreadyActive)

	active, err = s.ActiveFast(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, f.ID, active.ID)

	assert.ErrorIs(t, s.EndFast(ctx, f.ID, base.Add(-time.Hour)), apperrors.ErrNoActiveFast)
	require.NoError(t, s.EndFast(ctx, f.ID, base.Add(16*time.Hour)))
	assert.ErrorIs(t, s.EndFast(ctx, f.ID, base.Add(17*time.Hour)), apperrors.ErrNoActiveFast)

	fasts, err := s.ListFasts(ctx, 1, base.Add(-time.Hour), base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, fasts, 1)
	hours, ok := fasts[0].DurationHours()
	assert.True(t, ok)
	assert.Equal(t, 16.0, hours)
}

func TestMemoryConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := domain.WeightEvent{UserID: 1, Timestamp: base.Add(time.Duration(i) * time.Minute), WeightKg: 80}
			_ = s.AppendWeight(ctx, &w)
			sym := domain.SymptomEvent{UserID: 1, Timestamp: base, Type: domain.SymptomCramps, Severity: 2}
			_ = s.AppendSymptom(ctx, &sym)
		}(i)
	}
	wg.Wait()

	weights, err := s.ListWeights(ctx, 1, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, weights, 50)
	symptoms, err := s.ListSymptoms(ctx, 1, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, symptoms, 50)
}

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore(diet.Relaxed)

	u, err := s.GetOrCreateUser(ctx, 100, "carnivore", "Ana", "")
	require.NoError(t, err)
	assert.Equal(t, diet.Relaxed, u.PreferredLevel)

	again, err := s.GetOrCreateUser(ctx, 100, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "carnivore", again.Username)

	require.NoError(t, s.SetPreferredLevel(ctx, u.ID, diet.Strict))
	got, err := s.GetUserByTelegramID(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, diet.Strict, got.PreferredLevel)

	_, err = s.GetUserByTelegramID(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	goals, err := s.GetGoals(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, goals)
	require.NoError(t, s.SetGoals(ctx, domain.Goals{UserID: u.ID, Calories: 2200, ProteinG: 160, FatG: 150}))
	goals, err = s.GetGoals(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 160, goals.ProteinG)
}
