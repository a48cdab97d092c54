package analytics

import (
	"time"
)

// DefaultWeekDays is the window WeeklySummary uses when days <= 0.
const DefaultWeekDays = 7

// Weekly summarizes a trailing window of calendar days.
type Weekly struct {
	Start time.Time
	End   time.Time // exclusive
	Days  []Daily   // one row per calendar day, oldest first

	DaysWithData  int
	TotalMeals    int
	TotalCalories float64
	TotalProteinG float64
	TotalFatG     float64

	// Averages are per day with data, so empty days do not dilute them.
	AvgCalories float64
	AvgProteinG float64
	AvgFatG     float64

	ComplianceRate float64
	TopSymptoms    []SymptomCount

	CompletedFasts    int
	TotalFastingHours float64

	// WeightChangeKg is newest minus oldest sample, 0 with fewer than two.
	WeightChangeKg float64
}

// WeeklySummary aggregates the days calendar days ending on end's day.
func WeeklySummary(events Events, end time.Time, days int) Weekly {
	if days <= 0 {
		days = DefaultWeekDays
	}
	w := trailingWindow(end, days)

	out := Weekly{
		Start: w.start,
		End:   w.end,
		Days:  make([]Daily, 0, days),
	}

	strict := 0
	for _, day := range w.dayStarts() {
		d := DailyStats(events.Meals, day)
		out.Days = append(out.Days, d)
		if !d.HasData() {
			continue
		}
		out.DaysWithData++
		out.TotalMeals += d.MealCount
		out.TotalCalories += d.TotalCalories
		out.TotalProteinG += d.TotalProteinG
		out.TotalFatG += d.TotalFatG
		strict += d.StrictMeals
	}

	if out.DaysWithData > 0 {
		n := float64(out.DaysWithData)
		out.AvgCalories = round(out.TotalCalories/n, 1)
		out.AvgProteinG = round(out.TotalProteinG/n, 1)
		out.AvgFatG = round(out.TotalFatG/n, 1)
	}
	out.ComplianceRate = compliance(strict, out.TotalMeals)
	out.TopSymptoms = topSymptoms(events.Symptoms, w, 3)

	for _, h := range completedFasts(events.Fasts, w) {
		out.CompletedFasts++
		out.TotalFastingHours += h
	}
	out.TotalFastingHours = round(out.TotalFastingHours, 1)

	out.WeightChangeKg, _ = weightChange(events.Weights, w)
	return out
}
