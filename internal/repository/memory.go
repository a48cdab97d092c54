package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// MemoryEventStore keeps events in process memory. Used by tests and
// STORAGE=memory.
type MemoryEventStore struct {
	mu       sync.RWMutex
	nextID   uint
	meals    []domain.MealEvent
	fasts    []domain.FastingEvent
	symptoms []domain.SymptomEvent
	weights  []domain.WeightEvent
	notes    []domain.VoiceNote
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{}
}

var _ domain.EventStore = (*MemoryEventStore)(nil)

func (s *MemoryEventStore) id() uint {
	s.nextID++
	return s.nextID
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (s *MemoryEventStore) AppendMeal(_ context.Context, meal *domain.MealEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meal.ID = s.id()
	m := *meal
	m.Ingredients = append([]string(nil), meal.Ingredients...)
	m.Quantities = append([]string(nil), meal.Quantities...)
	m.Warnings = append([]string(nil), meal.Warnings...)
	s.meals = append(s.meals, m)
	return nil
}

func (s *MemoryEventStore) ListMeals(_ context.Context, userID uint, from, to time.Time) ([]domain.MealEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MealEvent
	for _, m := range s.meals {
		if m.UserID == userID && inRange(m.Timestamp, from, to) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryEventStore) FirstMealAt(_ context.Context, userID uint) (*time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var first *time.Time
	for _, m := range s.meals {
		if m.UserID != userID {
			continue
		}
		if first == nil || m.Timestamp.Before(*first) {
			ts := m.Timestamp
			first = &ts
		}
	}
	return first, nil
}

func (s *MemoryEventStore) StartFast(_ context.Context, fast *domain.FastingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fast.End == nil {
		for _, f := range s.fasts {
			if f.UserID == fast.UserID && f.IsActive() {
				return apperrors.ErrFastAlreadyActive
			}
		}
	}
	fast.ID = s.id()
	s.fasts = append(s.fasts, *fast)
	return nil
}

func (s *MemoryEventStore) EndFast(_ context.Context, fastID uint, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.fasts {
		f := &s.fasts[i]
		if f.ID != fastID || !f.IsActive() || end.Before(f.Start) {
			continue
		}
		e := end
		f.End = &e
		return nil
	}
	return apperrors.ErrNoActiveFast
}

func (s *MemoryEventStore) ActiveFast(_ context.Context, userID uint) (*domain.FastingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fasts {
		if f.UserID == userID && f.IsActive() {
			fc := f
			return &fc, nil
		}
	}
	return nil, nil
}

func (s *MemoryEventStore) ListFasts(_ context.Context, userID uint, from, to time.Time) ([]domain.FastingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.FastingEvent
	for _, f := range s.fasts {
		if f.UserID == userID && inRange(f.Start, from, to) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *MemoryEventStore) AppendSymptom(_ context.Context, sym *domain.SymptomEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym.ID = s.id()
	s.symptoms = append(s.symptoms, *sym)
	return nil
}

func (s *MemoryEventStore) ListSymptoms(_ context.Context, userID uint, from, to time.Time) ([]domain.SymptomEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SymptomEvent
	for _, e := range s.symptoms {
		if e.UserID == userID && inRange(e.Timestamp, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryEventStore) AppendWeight(_ context.Context, w *domain.WeightEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.id()
	s.weights = append(s.weights, *w)
	return nil
}

func (s *MemoryEventStore) ListWeights(_ context.Context, userID uint, from, to time.Time) ([]domain.WeightEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.WeightEvent
	for _, e := range s.weights {
		if e.UserID == userID && inRange(e.Timestamp, from, to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryEventStore) AppendVoiceNote(_ context.Context, n *domain.VoiceNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id()
	s.notes = append(s.notes, *n)
	return nil
}

func (s *MemoryEventStore) ListVoiceNotes(_ context.Context, userID uint, from, to time.Time) ([]domain.VoiceNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.VoiceNote
	for _, n := range s.notes {
		if n.UserID == userID && inRange(n.Timestamp, from, to) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// MemoryUserStore keeps users in process memory.
type MemoryUserStore struct {
	mu           sync.RWMutex
	defaultLevel diet.Level
	byTelegram   map[int64]*domain.User
	goals        map[uint]domain.Goals
	nextID       uint
}

func NewMemoryUserStore(defaultLevel diet.Level) *MemoryUserStore {
	return &MemoryUserStore{
		defaultLevel: defaultLevel,
		byTelegram:   make(map[int64]*domain.User),
		goals:        make(map[uint]domain.Goals),
	}
}

var _ domain.UserStore = (*MemoryUserStore)(nil)

func (s *MemoryUserStore) GetOrCreateUser(_ context.Context, telegramID int64, username, firstName, lastName string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byTelegram[telegramID]; ok {
		uc := *u
		return &uc, nil
	}
	s.nextID++
	now := time.Now()
	u := &domain.User{
		ID:             s.nextID,
		CreatedAt:      now,
		UpdatedAt:      now,
		TelegramID:     telegramID,
		Username:       username,
		FirstName:      firstName,
		LastName:       lastName,
		PreferredLevel: s.defaultLevel,
	}
	s.byTelegram[telegramID] = u
	uc := *u
	return &uc, nil
}

func (s *MemoryUserStore) GetUserByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byTelegram[telegramID]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	uc := *u
	return &uc, nil
}

func (s *MemoryUserStore) SetPreferredLevel(_ context.Context, userID uint, level diet.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byTelegram {
		if u.ID == userID {
			u.PreferredLevel = level
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (s *MemoryUserStore) SetGoals(_ context.Context, goals domain.Goals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[goals.UserID] = goals
	return nil
}

func (s *MemoryUserStore) GetGoals(_ context.Context, userID uint) (*domain.Goals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[userID]
	if !ok {
		return nil, nil
	}
	return &g, nil
}
