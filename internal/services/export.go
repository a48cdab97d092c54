package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/analytics"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

type ExportPeriod string

const (
	PeriodDaily  ExportPeriod = "daily"
	PeriodWeekly ExportPeriod = "weekly"
)

// ParseExportFormat accepts csv or json in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}
	return "", apperrors.NewInvalidError(apperrors.CodeInvalidInput, "unknown export format %q, use csv or json", raw)
}

// ParseExportPeriod defaults to daily when raw is empty.
func ParseExportPeriod(raw string) (ExportPeriod, error) {
	switch p := ExportPeriod(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodWeekly:
		return p, nil
	}
	return "", apperrors.NewInvalidError(apperrors.CodeInvalidInput, "unknown export period %q, use daily or weekly", raw)
}

// ExportFile is a generated document ready to be sent.
type ExportFile struct {
	Name  string
	Data  []byte
	Meals int
}

var mealCSVHeader = []string{
	"timestamp", "summary", "level", "source", "calories_kcal", "protein_g", "fat_g", "carbs_g",
	"processing", "breaks_fast", "needs_confirmation", "ingredients", "warnings",
}

type exportMeal struct {
	Timestamp         time.Time `json:"timestamp"`
	Summary           string    `json:"summary"`
	Level             string    `json:"level"`
	Source            string    `json:"source"`
	CaloriesKcal      float64   `json:"calories_kcal"`
	ProteinG          float64   `json:"protein_g"`
	FatG              float64   `json:"fat_g"`
	CarbsG            float64   `json:"carbs_g"`
	Processing        string    `json:"processing"`
	BreaksFast        bool      `json:"breaks_fast"`
	NeedsConfirmation bool      `json:"needs_confirmation"`
	Ingredients       []string  `json:"ingredients"`
	Warnings          []string  `json:"warnings,omitempty"`
}

type exportSummary struct {
	From           string   `json:"from"`
	To             string   `json:"to"`
	MealCount      int      `json:"meal_count"`
	TotalCalories  float64  `json:"total_calories"`
	TotalProteinG  float64  `json:"total_protein_g"`
	TotalFatG      float64  `json:"total_fat_g"`
	ComplianceRate float64  `json:"compliance_rate"`
	FatProtein     *float64 `json:"fat_protein_ratio"`
	DaysWithData   int      `json:"days_with_data,omitempty"`
	CompletedFasts int      `json:"completed_fasts,omitempty"`
	WeightChangeKg float64  `json:"weight_change_kg,omitempty"`
}

type exportDocument struct {
	User        string        `json:"user"`
	Period      ExportPeriod  `json:"period"`
	GeneratedAt time.Time     `json:"generated_at"`
	Summary     exportSummary `json:"summary"`
	Meals       []exportMeal  `json:"meals"`
}

// Export renders today's or the last seven days' meals as CSV or JSON.
func (s *AnalyticsService) Export(ctx context.Context, user *domain.User, format ExportFormat, period ExportPeriod) (*ExportFile, error) {
	meals, summary, err := s.exportWindow(ctx, user, period)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch format {
	case FormatCSV:
		data, err = mealsCSV(meals, s.loc)
	case FormatJSON:
		name := user.Username
		if name == "" {
			name = user.FirstName
		}
		data, err = json.MarshalIndent(exportDocument{
			User:        name,
			Period:      period,
			GeneratedAt: s.now().In(s.loc),
			Summary:     summary,
			Meals:       exportMeals(meals, s.loc),
		}, "", "  ")
	default:
		return nil, apperrors.NewInvalidError(apperrors.CodeInvalidInput, "unknown export format %q", format)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("failed to encode export: %w", err))
	}

	logger.WithUser(user.TelegramID).Info("Data exported",
		"format", string(format), "period", string(period), "meals", len(meals), "bytes", len(data))

	return &ExportFile{
		Name:  fmt.Sprintf("carnivore_%s_%s.%s", period, s.today().Format("2006-01-02"), format),
		Data:  data,
		Meals: len(meals),
	}, nil
}

func (s *AnalyticsService) exportWindow(ctx context.Context, user *domain.User, period ExportPeriod) ([]domain.MealEvent, exportSummary, error) {
	if period == PeriodWeekly {
		end := s.today()
		events, err := s.load(ctx, user, end, analytics.DefaultWeekDays, false)
		if err != nil {
			return nil, exportSummary{}, err
		}
		w := analytics.WeeklySummary(events, end, analytics.DefaultWeekDays)
		summary := exportSummary{
			From:           w.Start.Format("2006-01-02"),
			To:             w.End.AddDate(0, 0, -1).Format("2006-01-02"),
			MealCount:      w.TotalMeals,
			TotalCalories:  w.TotalCalories,
			TotalProteinG:  w.TotalProteinG,
			TotalFatG:      w.TotalFatG,
			ComplianceRate: w.ComplianceRate,
			DaysWithData:   w.DaysWithData,
			CompletedFasts: w.CompletedFasts,
			WeightChangeKg: w.WeightChangeKg,
		}
		if r, ok := diet.FatProteinRatio(w.TotalFatG, w.TotalProteinG); ok {
			summary.FatProtein = &r
		}
		return events.Meals, summary, nil
	}

	report, err := s.Daily(ctx, user)
	if err != nil {
		return nil, exportSummary{}, err
	}
	d := report.Stats
	day := d.Date.Format("2006-01-02")
	summary := exportSummary{
		From:           day,
		To:             day,
		MealCount:      d.MealCount,
		TotalCalories:  d.TotalCalories,
		TotalProteinG:  d.TotalProteinG,
		TotalFatG:      d.TotalFatG,
		ComplianceRate: d.ComplianceRate,
	}
	if r, ok := d.FatProteinRatio(); ok {
		summary.FatProtein = &r
	}
	return report.Meals, summary, nil
}

func mealsCSV(meals []domain.MealEvent, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(mealCSVHeader); err != nil {
		return nil, err
	}
	for _, m := range exportMeals(meals, loc) {
		row := []string{
			m.Timestamp.Format("2006-01-02 15:04"),
			m.Summary,
			m.Level,
			m.Source,
			formatFloat(m.CaloriesKcal),
			formatFloat(m.ProteinG),
			formatFloat(m.FatG),
			formatFloat(m.CarbsG),
			m.Processing,
			strconv.FormatBool(m.BreaksFast),
			strconv.FormatBool(m.NeedsConfirmation),
			strings.Join(m.Ingredients, "; "),
			strings.Join(m.Warnings, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportMeals(meals []domain.MealEvent, loc *time.Location) []exportMeal {
	out := make([]exportMeal, 0, len(meals))
	for _, m := range meals {
		out = append(out, exportMeal{
			Timestamp:         m.Timestamp.In(loc),
			Summary:           m.Summary,
			Level:             m.Level.String(),
			Source:            string(m.Source),
			CaloriesKcal:      m.CaloriesKcal,
			ProteinG:          m.ProteinG,
			FatG:              m.FatG,
			CarbsG:            m.CarbsG,
			Processing:        string(m.Processing),
			BreaksFast:        m.BreaksFast,
			NeedsConfirmation: m.NeedsConfirmation,
			Ingredients:       append([]string{}, m.Ingredients...),
			Warnings:          m.Warnings,
		})
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
