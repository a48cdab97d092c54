package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
	"github.com/vladimiradmaev/carnivore-helper/internal/utils"
)

// Weight range accepted from chat input.
const (
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
)

// FastStage names the phase a running fast has reached.
type FastStage string

const (
	StageEarly      FastStage = "early"
	StageFatBurning FastStage = "fat_burning"
	StageAutophagy  FastStage = "autophagy"
	StageExtended   FastStage = "extended"
)

// StageFor maps elapsed fasting time to a stage: <12h, <16h, <24h, longer.
func StageFor(elapsed time.Duration) FastStage {
	switch h := elapsed.Hours(); {
	case h < 12:
		return StageEarly
	case h < 16:
		return StageFatBurning
	case h < 24:
		return StageAutophagy
	default:
		return StageExtended
	}
}

// FastToggle reports what /fast did.
type FastToggle struct {
	Started       bool
	Fast          domain.FastingEvent
	DurationHours float64
}

// FastStatus describes the running fast.
type FastStatus struct {
	Fast    domain.FastingEvent
	Elapsed time.Duration
	Stage   FastStage
}

// WeightEntry is a logged weight with the change from the previous entry.
type WeightEntry struct {
	Event    domain.WeightEvent
	ChangeKg *float64
}

// TrackingService records fasts, symptoms and weight.
type TrackingService struct {
	events domain.EventStore
	loc    *time.Location
	now    func() time.Time
}

func NewTrackingService(events domain.EventStore, loc *time.Location) *TrackingService {
	if loc == nil {
		loc = time.UTC
	}
	return &TrackingService{events: events, loc: loc, now: time.Now}
}

// ToggleFast ends the running fast or starts a new one.
func (s *TrackingService) ToggleFast(ctx context.Context, user *domain.User) (*FastToggle, error) {
	now := s.now()

	active, err := s.events.ActiveFast(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if active != nil {
		if err := s.events.EndFast(ctx, active.ID, now); err != nil {
			return nil, err
		}
		active.End = &now
		hours, _ := active.DurationHours()
		logger.WithUser(user.TelegramID).Info("Fast ended", "fast_id", active.ID, "hours", hours)
		return &FastToggle{Fast: *active, DurationHours: hours}, nil
	}

	fast, err := domain.NewFastingEvent(user.ID, now, nil)
	if err != nil {
		return nil, err
	}
	if err := s.events.StartFast(ctx, &fast); err != nil {
		return nil, err
	}
	logger.WithUser(user.TelegramID).Info("Fast started", "fast_id", fast.ID)
	return &FastToggle{Started: true, Fast: fast}, nil
}

// FastStatus returns ErrNoActiveFast when nothing is running.
func (s *TrackingService) FastStatus(ctx context.Context, user *domain.User) (*FastStatus, error) {
	active, err := s.events.ActiveFast(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, apperrors.ErrNoActiveFast
	}
	elapsed := s.now().Sub(active.Start)
	return &FastStatus{Fast: *active, Elapsed: elapsed, Stage: StageFor(elapsed)}, nil
}

// LogSymptom parses the type and records the symptom. Severity outside
// 1..5 is rejected.
func (s *TrackingService) LogSymptom(ctx context.Context, user *domain.User, rawType string, severity int, notes string) (*domain.SymptomEvent, error) {
	typ, err := domain.ParseSymptomType(rawType)
	if err != nil {
		return nil, err
	}
	event, err := domain.NewSymptomEvent(user.ID, s.now(), typ, severity, notes)
	if err != nil {
		return nil, err
	}
	if err := s.events.AppendSymptom(ctx, &event); err != nil {
		return nil, err
	}
	logger.WithUser(user.TelegramID).Info("Symptom logged", "type", string(typ), "severity", severity)
	return &event, nil
}

// SymptomsToday lists today's symptoms in the configured timezone.
func (s *TrackingService) SymptomsToday(ctx context.Context, user *domain.User) ([]domain.SymptomEvent, error) {
	from, to := utils.DayWindow(s.now(), s.loc)
	return s.events.ListSymptoms(ctx, user.ID, from, to)
}

// NotesToday lists today's notes, the inputs that were kept as text
// rather than logged as meals.
func (s *TrackingService) NotesToday(ctx context.Context, user *domain.User) ([]domain.VoiceNote, error) {
	from, to := utils.DayWindow(s.now(), s.loc)
	return s.events.ListVoiceNotes(ctx, user.ID, from, to)
}

// ParseWeight accepts "85.5" and "85,5".
func ParseWeight(raw string) (float64, error) {
	kg, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(raw), ",", ".", 1), 64)
	if err != nil {
		return 0, apperrors.NewInvalidError(apperrors.CodeInvalidWeight, "weight %q is not a number", raw)
	}
	if kg < MinWeightKg || kg > MaxWeightKg {
		return 0, apperrors.NewInvalidError(apperrors.CodeInvalidWeight,
			"weight must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg)
	}
	return kg, nil
}

// LogWeight records a weight and compares it with the previous entry.
func (s *TrackingService) LogWeight(ctx context.Context, user *domain.User, kg float64) (*WeightEntry, error) {
	now := s.now()
	prev, err := s.WeightHistory(ctx, user, 1)
	if err != nil {
		return nil, err
	}

	event, err := domain.NewWeightEvent(user.ID, now, kg, "")
	if err != nil {
		return nil, err
	}
	if err := s.events.AppendWeight(ctx, &event); err != nil {
		return nil, err
	}

	entry := &WeightEntry{Event: event}
	if len(prev) > 0 {
		diff := kg - prev[0].WeightKg
		entry.ChangeKg = &diff
	}
	logger.WithUser(user.TelegramID).Info("Weight logged", "kg", kg)
	return entry, nil
}

// WeightHistory returns up to limit most recent entries of the last year,
// newest first.
func (s *TrackingService) WeightHistory(ctx context.Context, user *domain.User, limit int) ([]domain.WeightEvent, error) {
	now := s.now()
	weights, err := s.events.ListWeights(ctx, user.ID, now.AddDate(-1, 0, 0), now.Add(time.Second))
	if err != nil {
		return nil, err
	}
	out := make([]domain.WeightEvent, 0, limit)
	for i := len(weights) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, weights[i])
	}
	return out, nil
}
