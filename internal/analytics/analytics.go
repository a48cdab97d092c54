// Package analytics derives daily, weekly and metabolic views from logged
// events. Every function is pure: it reads the slices it is given, never
// modifies or keeps them, and returns fresh values.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/utils"
)

// Events is a snapshot of one user's event log for some time range.
type Events struct {
	Meals    []domain.MealEvent
	Fasts    []domain.FastingEvent
	Symptoms []domain.SymptomEvent
	Weights  []domain.WeightEvent

	// ProtocolStart is the user's first ever meal. When zero, the earliest
	// meal in Meals is used.
	ProtocolStart time.Time
}

// SymptomCount is how often a symptom type was reported.
type SymptomCount struct {
	Type  domain.SymptomType
	Count int
}

// window is a half-open range of whole calendar days.
type window struct {
	start time.Time
	end   time.Time
	days  int
}

// trailingWindow covers the days calendar days ending on ref's day.
func trailingWindow(ref time.Time, days int) window {
	today := utils.StartOfDay(ref, ref.Location())
	return window{
		start: today.AddDate(0, 0, -(days - 1)),
		end:   today.AddDate(0, 0, 1),
		days:  days,
	}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// dayStarts lists the midnight of every day in w, oldest first.
func (w window) dayStarts() []time.Time {
	out := make([]time.Time, 0, w.days)
	for d := w.start; d.Before(w.end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

func compliance(strict, total int) float64 {
	if total == 0 {
		return 100.0
	}
	return float64(strict) / float64(total) * 100
}

// topSymptoms ranks symptom types by count, ties kept in first-seen order.
func topSymptoms(symptoms []domain.SymptomEvent, w window, n int) []SymptomCount {
	counts := make(map[domain.SymptomType]int)
	var order []domain.SymptomType
	for _, s := range symptoms {
		if !w.contains(s.Timestamp) {
			continue
		}
		if _, seen := counts[s.Type]; !seen {
			order = append(order, s.Type)
		}
		counts[s.Type]++
	}

	ranked := make([]SymptomCount, 0, len(order))
	for _, typ := range order {
		ranked = append(ranked, SymptomCount{Type: typ, Count: counts[typ]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// weightChange is newest minus oldest sample in w; ok is false with fewer
// than two samples.
func weightChange(weights []domain.WeightEvent, w window) (float64, bool) {
	var in []domain.WeightEvent
	for _, s := range weights {
		if w.contains(s.Timestamp) {
			in = append(in, s)
		}
	}
	if len(in) < 2 {
		return 0, false
	}
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].Timestamp.Before(in[j].Timestamp)
	})
	return round(in[len(in)-1].WeightKg-in[0].WeightKg, 2), true
}

// completedFasts returns the durations of finished fasts started inside w.
func completedFasts(fasts []domain.FastingEvent, w window) []float64 {
	var hours []float64
	for _, f := range fasts {
		if !w.contains(f.Start) {
			continue
		}
		if h, ok := f.DurationHours(); ok {
			hours = append(hours, h)
		}
	}
	return hours
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
