package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/vladimiradmaev/carnivore-helper/internal/database"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// EventRepository is the Postgres event store
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ domain.EventStore = (*EventRepository)(nil)

// insertError reports a unique violation as conflict and anything else as
// a database error.
func insertError(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return apperrors.NewDatabaseError(err)
}

func (r *EventRepository) window(ctx context.Context, column string, userID uint, from, to time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" >= ? AND "+column+" < ?", userID, from, to).
		Order(column)
}

func (r *EventRepository) AppendMeal(ctx context.Context, meal *domain.MealEvent) error {
	rec := database.NewMealRecord(*meal)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	meal.ID = rec.ID
	return nil
}

func (r *EventRepository) ListMeals(ctx context.Context, userID uint, from, to time.Time) ([]domain.MealEvent, error) {
	var recs []database.MealRecord
	if err := r.window(ctx, "timestamp", userID, from, to).Find(&recs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	meals := make([]domain.MealEvent, 0, len(recs))
	for _, rec := range recs {
		m, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, nil
}

func (r *EventRepository) FirstMealAt(ctx context.Context, userID uint) (*time.Time, error) {
	var rec database.MealRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("timestamp").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &rec.Timestamp, nil
}

func (r *EventRepository) StartFast(ctx context.Context, fast *domain.FastingEvent) error {
	rec := database.FastingRecord{UserID: fast.UserID, StartTime: fast.Start, EndTime: fast.End}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// idx_fasting_records_one_active allows one running fast per user.
		return insertError(err, apperrors.ErrFastAlreadyActive)
	}
	fast.ID = rec.ID
	return nil
}

// EndFast closes a running fast. Closing an unknown or finished fast
// returns ErrNoActiveFast.
func (r *EventRepository) EndFast(ctx context.Context, fastID uint, end time.Time) error {
	res := r.db.WithContext(ctx).Model(&database.FastingRecord{}).
		Where("id = ? AND end_time IS NULL AND start_time <= ?", fastID, end).
		Update("end_time", end)
	if res.Error != nil {
		return apperrors.NewDatabaseError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNoActiveFast
	}
	return nil
}

func (r *EventRepository) ActiveFast(ctx context.Context, userID uint) (*domain.FastingEvent, error) {
	var rec database.FastingRecord
	err := r.db.WithContext(ctx).Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	f := rec.ToDomain()
	return &f, nil
}

func (r *EventRepository) ListFasts(ctx context.Context, userID uint, from, to time.Time) ([]domain.FastingEvent, error) {
	var recs []database.FastingRecord
	if err := r.window(ctx, "start_time", userID, from, to).Find(&recs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	fasts := make([]domain.FastingEvent, 0, len(recs))
	for _, rec := range recs {
		fasts = append(fasts, rec.ToDomain())
	}
	return fasts, nil
}

func (r *EventRepository) AppendSymptom(ctx context.Context, s *domain.SymptomEvent) error {
	rec := database.SymptomRecord{
		UserID:    s.UserID,
		Timestamp: s.Timestamp,
		Type:      string(s.Type),
		Severity:  s.Severity,
		Notes:     s.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	s.ID = rec.ID
	return nil
}

func (r *EventRepository) ListSymptoms(ctx context.Context, userID uint, from, to time.Time) ([]domain.SymptomEvent, error) {
	var recs []database.SymptomRecord
	if err := r.window(ctx, "timestamp", userID, from, to).Find(&recs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]domain.SymptomEvent, 0, len(recs))
	for _, rec := range recs {
		s, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *EventRepository) AppendWeight(ctx context.Context, w *domain.WeightEvent) error {
	rec := database.WeightRecord{UserID: w.UserID, Timestamp: w.Timestamp, WeightKg: w.WeightKg, Notes: w.Notes}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	w.ID = rec.ID
	return nil
}

func (r *EventRepository) ListWeights(ctx context.Context, userID uint, from, to time.Time) ([]domain.WeightEvent, error) {
	var recs []database.WeightRecord
	if err := r.window(ctx, "timestamp", userID, from, to).Find(&recs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]domain.WeightEvent, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.ToDomain())
	}
	return out, nil
}

func (r *EventRepository) AppendVoiceNote(ctx context.Context, n *domain.VoiceNote) error {
	rec := database.VoiceNote{
		UserID:        n.UserID,
		Timestamp:     n.Timestamp,
		Transcription: n.Transcription,
		FoodDetected:  n.FoodDetected,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	n.ID = rec.ID
	return nil
}

func (r *EventRepository) ListVoiceNotes(ctx context.Context, userID uint, from, to time.Time) ([]domain.VoiceNote, error) {
	var recs []database.VoiceNote
	if err := r.window(ctx, "timestamp", userID, from, to).Find(&recs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	out := make([]domain.VoiceNote, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.ToDomain())
	}
	return out, nil
}
