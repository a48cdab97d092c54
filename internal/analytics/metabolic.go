package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/utils"
)

const (
	// MetabolicWindowDays is the lookback for compliance, symptoms, fasting
	// and weight.
	MetabolicWindowDays = 30
	// NutritionWindowDays is the lookback for macro averages.
	NutritionWindowDays = 7
)

// Risk is the electrolyte risk bucket.
type Risk string

const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// Trend is the direction of self-reported energy.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
	TrendUnknown   Trend = "unknown"
)

const (
	LabelFatAdapted    = "Likely Fat-Adapted"
	LabelAdaptingWell  = "Adapting Well"
	LabelEarly         = "Early Adaptation"
	LabelBeginning     = "Beginning Transition"
	LabelNotYetAdapted = "Not Yet Adapted"

	WeightInsufficient = "insufficient data"
	WeightStable       = "stable"
)

// ScoreBreakdown holds the five sub-scores behind Metabolic.Score.
type ScoreBreakdown struct {
	Tenure      int // max 30
	Compliance  int // max 25
	FatProtein  int // max 20
	Electrolyte int // max 15
	Fasting     int // max 10
}

func (b ScoreBreakdown) Sum() int {
	return b.Tenure + b.Compliance + b.FatProtein + b.Electrolyte + b.Fasting
}

// Metabolic is the adaptation picture as of a reference date.
type Metabolic struct {
	Score     int
	Label     string
	Breakdown ScoreBreakdown

	DaysOnProtocol int
	ComplianceRate float64

	// AvgFatProteinRatio is the mean of the daily ratios over the last
	// week; nil when no day had protein.
	AvgFatProteinRatio *float64
	AvgDailyProteinG   float64
	AvgDailyFatG       float64
	AvgDailyCalories   float64

	ElectrolyteLoad int
	ElectrolyteRisk Risk
	EnergyTrend     Trend
	WeightTrend     string

	// FastingFrequency is completed fasts per week.
	FastingFrequency float64
	AvgFastingHours  float64
	CommonSymptoms   []SymptomCount
}

// MetabolicStats scores adaptation from the events around ref.
func MetabolicStats(events Events, ref time.Time) Metabolic {
	month := trailingWindow(ref, MetabolicWindowDays)
	week := trailingWindow(ref, NutritionWindowDays)

	var m Metabolic

	m.DaysOnProtocol = daysOnProtocol(events, ref)
	m.Breakdown.Tenure = tenurePoints(m.DaysOnProtocol)

	strict, total := 0, 0
	for _, meal := range events.Meals {
		if !month.contains(meal.Timestamp) {
			continue
		}
		total++
		if meal.Level == diet.Strict {
			strict++
		}
	}
	m.ComplianceRate = round(compliance(strict, total), 1)
	m.Breakdown.Compliance = int(math.Floor(compliance(strict, total) * 0.25))

	nutrition(&m, events, week)
	if m.AvgFatProteinRatio != nil {
		m.Breakdown.FatProtein = fatProteinPoints(*m.AvgFatProteinRatio)
	}

	for _, s := range events.Symptoms {
		if month.contains(s.Timestamp) && s.Type.Electrolyte() {
			m.ElectrolyteLoad += s.Severity
		}
	}
	m.ElectrolyteRisk, m.Breakdown.Electrolyte = electrolyteRisk(m.ElectrolyteLoad)

	fasts := completedFasts(events.Fasts, month)
	if len(fasts) > 0 {
		sum := 0.0
		for _, h := range fasts {
			sum += h
		}
		m.AvgFastingHours = round(sum/float64(len(fasts)), 1)
	}
	m.FastingFrequency = round(float64(len(fasts))/(float64(MetabolicWindowDays)/7), 2)
	m.Breakdown.Fasting = fastingPoints(m.AvgFastingHours)

	m.Score = clamp(m.Breakdown.Sum(), 0, 100)
	m.Label = adaptationLabel(m.Score)

	m.EnergyTrend = energyTrend(events, month)
	m.WeightTrend = weightTrend(events, month)
	m.CommonSymptoms = topSymptoms(events.Symptoms, month, 3)
	return m
}

// daysOnProtocol counts calendar days from the first meal through ref,
// both inclusive. Zero when nothing was ever logged.
func daysOnProtocol(events Events, ref time.Time) int {
	start := events.ProtocolStart
	for _, meal := range events.Meals {
		if start.IsZero() || meal.Timestamp.Before(start) {
			start = meal.Timestamp
		}
	}
	if start.IsZero() || start.After(ref) {
		return 0
	}
	return utils.DaysBetween(start, ref) + 1
}

func tenurePoints(days int) int {
	switch {
	case days >= 30:
		return 30
	case days >= 14:
		return 20
	case days >= 7:
		return 10
	default:
		return days
	}
}

// nutrition fills the weekly macro averages. Averages are per day with
// data; the fat:protein ratio averages the days that had protein.
func nutrition(m *Metabolic, events Events, w window) {
	var daysWithData, daysWithRatio int
	var protein, fat, calories, ratioSum float64
	for _, day := range w.dayStarts() {
		d := DailyStats(events.Meals, day)
		if !d.HasData() {
			continue
		}
		daysWithData++
		protein += d.TotalProteinG
		fat += d.TotalFatG
		calories += d.TotalCalories
		if r, ok := d.FatProteinRatio(); ok {
			daysWithRatio++
			ratioSum += r
		}
	}

	if daysWithData > 0 {
		n := float64(daysWithData)
		m.AvgDailyProteinG = round(protein/n, 1)
		m.AvgDailyFatG = round(fat/n, 1)
		m.AvgDailyCalories = round(calories/n, 1)
	}
	if daysWithRatio > 0 {
		r := round(ratioSum/float64(daysWithRatio), 2)
		m.AvgFatProteinRatio = &r
	}
}

func fatProteinPoints(ratio float64) int {
	switch {
	case ratio >= 0.8 && ratio <= 2.0:
		return 20
	case ratio >= 0.5 && ratio <= 2.5:
		return 10
	default:
		return 0
	}
}

func electrolyteRisk(load int) (Risk, int) {
	switch {
	case load > 15:
		return RiskHigh, 0
	case load > 5:
		return RiskMedium, 7
	default:
		return RiskLow, 15
	}
}

func fastingPoints(avgHours float64) int {
	switch {
	case avgHours >= 16:
		return 10
	case avgHours >= 12:
		return 5
	default:
		return 0
	}
}

func adaptationLabel(score int) string {
	switch {
	case score >= 80:
		return LabelFatAdapted
	case score >= 60:
		return LabelAdaptingWell
	case score >= 40:
		return LabelEarly
	case score >= 20:
		return LabelBeginning
	default:
		return LabelNotYetAdapted
	}
}

func energyTrend(events Events, w window) Trend {
	sum, n := 0, 0
	for _, s := range events.Symptoms {
		sign := s.Type.EnergySign()
		if sign == 0 || !w.contains(s.Timestamp) {
			continue
		}
		sum += sign * s.Severity
		n++
	}
	if n == 0 {
		return TrendUnknown
	}

	avg := float64(sum) / float64(n)
	switch {
	case avg > 1:
		return TrendImproving
	case avg < -1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func weightTrend(events Events, w window) string {
	change, ok := weightChange(events.Weights, w)
	switch {
	case !ok:
		return WeightInsufficient
	case change < -0.5:
		return fmt.Sprintf("losing (%+.1fkg)", change)
	case change > 0.5:
		return fmt.Sprintf("gaining (%+.1fkg)", change)
	default:
		return WeightStable
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
