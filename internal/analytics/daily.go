package analytics

import (
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/utils"
)

// Daily aggregates the meals of one calendar day.
type Daily struct {
	Date              time.Time
	TotalProteinG     float64
	TotalFatG         float64
	TotalCalories     float64
	MealCount         int
	StrictMeals       int
	UniqueIngredients []string
	// ComplianceRate is the share of Strict meals in percent. A day with no
	// meals counts as 100.
	ComplianceRate float64
	FirstMealTime  string
	LastMealTime   string
}

// FatProteinRatio is undefined when the day has no protein.
func (d Daily) FatProteinRatio() (float64, bool) {
	return diet.FatProteinRatio(d.TotalFatG, d.TotalProteinG)
}

func (d Daily) HasData() bool {
	return d.MealCount > 0
}

// DailyStats aggregates the meals that fall on day's calendar date. Meal
// timestamps are converted into day's location before comparing dates.
func DailyStats(meals []domain.MealEvent, day time.Time) Daily {
	loc := day.Location()
	d := Daily{Date: utils.StartOfDay(day, loc)}

	seen := make(map[string]struct{})
	var first, last time.Time
	for _, m := range meals {
		if !utils.SameDay(m.Timestamp, day) {
			continue
		}

		d.MealCount++
		d.TotalProteinG += m.ProteinG
		d.TotalFatG += m.FatG
		d.TotalCalories += m.CaloriesKcal
		if m.Level == diet.Strict {
			d.StrictMeals++
		}

		for _, ingredient := range m.Ingredients {
			key := diet.Normalize(ingredient)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			d.UniqueIngredients = append(d.UniqueIngredients, key)
		}

		if first.IsZero() || m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if last.IsZero() || m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}

	d.ComplianceRate = compliance(d.StrictMeals, d.MealCount)
	if d.MealCount > 0 {
		d.FirstMealTime = utils.ClockString(first.In(loc))
		d.LastMealTime = utils.ClockString(last.In(loc))
	}
	return d
}
