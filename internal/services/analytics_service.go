package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vladimiradmaev/carnivore-helper/internal/analytics"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
	"github.com/vladimiradmaev/carnivore-helper/internal/utils"
)

// DailyReport is today's meals with their aggregate.
type DailyReport struct {
	Meals []domain.MealEvent
	Stats analytics.Daily
	Goals *domain.Goals
}

// AnalyticsService loads event windows from the store and hands them to
// the analytics package.
type AnalyticsService struct {
	events domain.EventStore
	users  domain.UserStore
	loc    *time.Location
	now    func() time.Time
}

func NewAnalyticsService(events domain.EventStore, users domain.UserStore, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{events: events, users: users, loc: loc, now: time.Now}
}

func (s *AnalyticsService) today() time.Time {
	return s.now().In(s.loc)
}

// Daily reports on today in the configured timezone.
func (s *AnalyticsService) Daily(ctx context.Context, user *domain.User) (*DailyReport, error) {
	day := s.today()
	from, to := utils.DayWindow(day, s.loc)

	g, gctx := errgroup.WithContext(ctx)
	report := &DailyReport{}
	g.Go(func() error {
		meals, err := s.events.ListMeals(gctx, user.ID, from, to)
		report.Meals = meals
		return err
	})
	g.Go(func() error {
		goals, err := s.users.GetGoals(gctx, user.ID)
		report.Goals = goals
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Stats = analytics.DailyStats(report.Meals, day)
	return report, nil
}

// Weekly summarizes the last days calendar days, today included.
func (s *AnalyticsService) Weekly(ctx context.Context, user *domain.User, days int) (analytics.Weekly, error) {
	if days <= 0 {
		days = analytics.DefaultWeekDays
	}
	end := s.today()
	events, err := s.load(ctx, user, end, days, false)
	if err != nil {
		return analytics.Weekly{}, err
	}
	return analytics.WeeklySummary(events, end, days), nil
}

// Metabolic scores adaptation over the last 30 days.
func (s *AnalyticsService) Metabolic(ctx context.Context, user *domain.User) (analytics.Metabolic, error) {
	ref := s.today()
	events, err := s.load(ctx, user, ref, analytics.MetabolicWindowDays, true)
	if err != nil {
		return analytics.Metabolic{}, err
	}
	return analytics.MetabolicStats(events, ref), nil
}

// load reads every event kind of the trailing window concurrently.
func (s *AnalyticsService) load(ctx context.Context, user *domain.User, ref time.Time, days int, withStart bool) (analytics.Events, error) {
	start := time.Now()
	today := utils.StartOfDay(ref, s.loc)
	from, to := today.AddDate(0, 0, -(days-1)), today.AddDate(0, 0, 1)

	var events analytics.Events
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		events.Meals, err = s.events.ListMeals(gctx, user.ID, from, to)
		return err
	})
	g.Go(func() (err error) {
		events.Fasts, err = s.events.ListFasts(gctx, user.ID, from, to)
		return err
	})
	g.Go(func() (err error) {
		events.Symptoms, err = s.events.ListSymptoms(gctx, user.ID, from, to)
		return err
	})
	g.Go(func() (err error) {
		events.Weights, err = s.events.ListWeights(gctx, user.ID, from, to)
		return err
	})
	if withStart {
		g.Go(func() error {
			first, err := s.events.FirstMealAt(gctx, user.ID)
			if err == nil && first != nil {
				events.ProtocolStart = *first
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return analytics.Events{}, err
	}

	logger.WithUser(user.TelegramID).Debug("Loaded analytics window",
		"days", days,
		"meals", len(events.Meals),
		"fasts", len(events.Fasts),
		"duration_ms", time.Since(start).Milliseconds())
	return events, nil
}
