package menus

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/analytics"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

var processingLabel = map[diet.ProcessingLevel]string{
	diet.Whole:              "🌿 Whole food",
	diet.MinimallyProcessed: "🔪 Minimally processed",
	diet.Processed:          "🏭 Processed",
	diet.UltraProcessed:     "☢️ Ultra processed",
}

var sourceEmoji = map[domain.EventSource]string{
	domain.SourcePhoto:  "📸",
	domain.SourceVoice:  "🎙️",
	domain.SourceText:   "📝",
	domain.SourceManual: "✍️",
}

func progressBar(current, total float64) string {
	if total <= 0 {
		return strings.Repeat("⬜", 10) + " 0%"
	}
	perc := int(math.Min(100, current/total*100))
	filled := perc / 10
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", 10-filled) + fmt.Sprintf(" %d%%", perc)
}

func severityBar(severity int) string {
	return strings.Repeat("🟢", severity) + strings.Repeat("⚪", domain.MaxSeverity-severity)
}

func complianceEmoji(rate float64) string {
	if rate == 100 {
		return "🥩"
	}
	return "⚠️"
}

// MealLogged renders the verdict for a freshly logged meal.
func MealLogged(r *services.MealReport) string {
	m := r.Meal
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s*\n", m.Level.Emoji(), m.Level.Description())
	fmt.Fprintf(&b, "🍽️ %s\n\n", EscapeMarkdown(m.Summary))

	if len(m.Ingredients) > 0 {
		b.WriteString("*Ingredients*\n")
		for i, in := range m.Ingredients {
			line := "• " + EscapeMarkdown(in)
			if i < len(m.Quantities) && m.Quantities[i] != "" {
				line += " (" + EscapeMarkdown(m.Quantities[i]) + ")"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "💪 Protein: %.0fg | 🧈 Fat: %.0fg | 🔥 %.0f kcal\n", m.ProteinG, m.FatG, m.CaloriesKcal)
	if m.CarbsG > 0 {
		fmt.Fprintf(&b, "🍞 Carbs: %.0fg\n", m.CarbsG)
	}
	if ratio, ok := m.FatProteinRatio(); ok {
		fmt.Fprintf(&b, "📐 Fat:protein ratio: %.2f\n", ratio)
	}
	b.WriteString(processingLabel[m.Processing] + "\n")

	if len(r.Validation.Forbidden) > 0 {
		b.WriteString("\n🚫 *Not carnivore:* " + EscapeMarkdown(strings.Join(r.Validation.Forbidden, ", ")) + "\n")
	}
	if len(m.Warnings) > 0 {
		b.WriteString("\n*Warnings*\n")
		for _, w := range m.Warnings {
			b.WriteString("⚠️ " + EscapeMarkdown(w) + "\n")
		}
	}
	if m.NeedsConfirmation {
		b.WriteString("\n❓ Some items need your confirmation.\n")
	}
	if m.BreaksFast {
		b.WriteString("\n⏹️ This meal breaks a fast.\n")
	}
	if r.Confidence != "" {
		fmt.Fprintf(&b, "\n🎯 Confidence: %s", EscapeMarkdown(r.Confidence))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Check renders a validation result for an ingredient list.
func Check(res diet.ValidationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n", res.Level.Emoji(), res.Level.Description())
	if len(res.Allowed) > 0 {
		b.WriteString("✅ " + EscapeMarkdown(strings.Join(res.Allowed, ", ")) + "\n")
	}
	if len(res.Forbidden) > 0 {
		b.WriteString("🚫 " + EscapeMarkdown(strings.Join(res.Forbidden, ", ")) + "\n")
	}
	for _, w := range res.WarningMessages {
		b.WriteString("⚠️ " + EscapeMarkdown(w) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// DailyStats renders /stats: today's totals against the user's goals.
func DailyStats(r *services.DailyReport) string {
	s := r.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Stats (%s)*\n\n", s.Date.Format("2006-01-02"))

	if g := r.Goals; g != nil {
		fmt.Fprintf(&b, "🔥 *Kcal*: %.0f/%d\n%s\n\n", s.TotalCalories, g.Calories, progressBar(s.TotalCalories, float64(g.Calories)))
		fmt.Fprintf(&b, "💪 *Protein*: %.0f/%dg\n%s\n\n", s.TotalProteinG, g.ProteinG, progressBar(s.TotalProteinG, float64(g.ProteinG)))
		fmt.Fprintf(&b, "🧈 *Fat*: %.0f/%dg\n%s\n\n", s.TotalFatG, g.FatG, progressBar(s.TotalFatG, float64(g.FatG)))
	} else {
		fmt.Fprintf(&b, "🔥 *Kcal*: %.0f\n💪 *Protein*: %.0fg\n🧈 *Fat*: %.0fg\n\n", s.TotalCalories, s.TotalProteinG, s.TotalFatG)
		b.WriteString("_Use /goals to set daily targets_\n\n")
	}

	if ratio, ok := s.FatProteinRatio(); ok {
		fmt.Fprintf(&b, "📐 *Fat:protein*: %.2f\n", ratio)
	}
	fmt.Fprintf(&b, "🍽️ *Meals*: %d\n", s.MealCount)
	if s.FirstMealTime != "" {
		fmt.Fprintf(&b, "⏰ *Window*: %s - %s\n", s.FirstMealTime, s.LastMealTime)
	}
	fmt.Fprintf(&b, "%s *Compliance*: %.0f%%", complianceEmoji(s.ComplianceRate), s.ComplianceRate)
	return b.String()
}

// DietLog renders /diet: every meal of today plus totals.
func DietLog(r *services.DailyReport, loc *time.Location) string {
	s := r.Stats
	if len(r.Meals) == 0 {
		return "🥗 Nothing logged today.\nSend photos, voice captions or text!"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🦁 *Carnivore log (%s)*\n\n", s.Date.Format("2006-01-02"))
	for _, m := range r.Meals {
		fmt.Fprintf(&b, "• %s %s %s %s\n", m.Timestamp.In(loc).Format("15:04"), sourceEmoji[m.Source],
			EscapeMarkdown(Truncate(m.Summary, 40)), m.Level.Emoji())
		fmt.Fprintf(&b, "   └ P: %.0fg | F: %.0fg | %.0fkcal\n", m.ProteinG, m.FatG, m.CaloriesKcal)
		if len(m.Warnings) > 0 {
			fmt.Fprintf(&b, "   ⚠️ %d warning(s)\n", len(m.Warnings))
		}
	}

	b.WriteString("\n━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "💪 Protein: %.0fg\n🧈 Fat: %.0fg\n🔥 Calories: %.0f", s.TotalProteinG, s.TotalFatG, s.TotalCalories)
	if ratio, ok := s.FatProteinRatio(); ok {
		fmt.Fprintf(&b, "\n📐 Fat:protein: %.2f", ratio)
	}
	return b.String()
}

// DailyReport renders /report daily.
func DailyReport(r *services.DailyReport, fast *services.FastStatus, symptoms []domain.SymptomEvent, loc *time.Location) string {
	s := r.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Daily report*\n_%s_\n\n", s.Date.Format("2006-01-02"))

	if len(r.Meals) == 0 {
		b.WriteString("🍽️ No meals logged today.\n\n")
	} else {
		fmt.Fprintf(&b, "*Meals (%d)*\n", s.MealCount)
		for _, m := range r.Meals {
			fmt.Fprintf(&b, "• %s - %s %s\n", m.Timestamp.In(loc).Format("15:04"),
				EscapeMarkdown(Truncate(m.Summary, 30)), m.Level.Emoji())
		}
		b.WriteString("\n")
	}

	b.WriteString("*Macros*\n")
	goal := func(v int, unit string) string {
		if r.Goals == nil {
			return ""
		}
		return fmt.Sprintf(" / %d%s", v, unit)
	}
	var gp, gf, gc int
	if r.Goals != nil {
		gp, gf, gc = r.Goals.ProteinG, r.Goals.FatG, r.Goals.Calories
	}
	fmt.Fprintf(&b, "💪 Protein: %.0fg%s\n", s.TotalProteinG, goal(gp, "g"))
	fmt.Fprintf(&b, "🧈 Fat: %.0fg%s\n", s.TotalFatG, goal(gf, "g"))
	fmt.Fprintf(&b, "🔥 Calories: %.0f%s\n", s.TotalCalories, goal(gc, ""))
	if ratio, ok := s.FatProteinRatio(); ok {
		fmt.Fprintf(&b, "📐 Fat:protein: %.2f\n", ratio)
	}

	if s.FirstMealTime != "" {
		fmt.Fprintf(&b, "\n*Eating window*\n⏰ %s → %s\n", s.FirstMealTime, s.LastMealTime)
	}
	if fast != nil {
		fmt.Fprintf(&b, "\n*Active fast*\n⏳ %.1f hours (since %s)\n", fast.Elapsed.Hours(), fast.Fast.Start.In(loc).Format("15:04"))
	}
	if len(symptoms) > 0 {
		fmt.Fprintf(&b, "\n*Symptoms (%d)*\n", len(symptoms))
		for i, sym := range symptoms {
			if i == 5 {
				break
			}
			fmt.Fprintf(&b, "• %s %s\n", keyboards.SymptomLabel(sym.Type), severityBar(sym.Severity))
		}
	}

	fmt.Fprintf(&b, "\n%s *Compliance:* %.0f%%", complianceEmoji(s.ComplianceRate), s.ComplianceRate)
	return b.String()
}

// Weekly renders /report weekly.
func Weekly(w analytics.Weekly) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 *Weekly report*\n_Last %d days_\n\n", len(w.Days))

	b.WriteString("*Overview*\n")
	fmt.Fprintf(&b, "📅 Days tracked: %d\n", w.DaysWithData)
	fmt.Fprintf(&b, "🍽️ Total meals: %d\n", w.TotalMeals)
	fmt.Fprintf(&b, "🥩 Compliance: %.0f%%\n\n", w.ComplianceRate)

	b.WriteString("*Totals*\n")
	fmt.Fprintf(&b, "🔥 %.0f kcal\n💪 %.0fg protein\n🧈 %.0fg fat\n\n", w.TotalCalories, w.TotalProteinG, w.TotalFatG)

	b.WriteString("*Daily averages*\n")
	fmt.Fprintf(&b, "🔥 %.0f kcal/day\n💪 %.0fg protein/day\n🧈 %.0fg fat/day\n", w.AvgCalories, w.AvgProteinG, w.AvgFatG)

	if w.CompletedFasts > 0 {
		fmt.Fprintf(&b, "\n*Fasts*\n✅ %d completed\n⏱️ %.1fh total\n", w.CompletedFasts, w.TotalFastingHours)
	}
	if len(w.TopSymptoms) > 0 {
		b.WriteString("\n*Top symptoms*\n")
		for _, s := range w.TopSymptoms {
			fmt.Fprintf(&b, "• %s: %dx\n", keyboards.SymptomLabel(s.Type), s.Count)
		}
	}
	if w.WeightChangeKg != 0 {
		trend := "📈"
		if w.WeightChangeKg < 0 {
			trend = "📉"
		}
		fmt.Fprintf(&b, "\n*Weight*\n%s %+.1f kg\n", trend, w.WeightChangeKg)
	}
	return strings.TrimRight(b.String(), "\n")
}

var riskEmoji = map[analytics.Risk]string{
	analytics.RiskLow:    "🟢",
	analytics.RiskMedium: "🟡",
	analytics.RiskHigh:   "🔴",
}

var trendEmoji = map[analytics.Trend]string{
	analytics.TrendImproving: "📈",
	analytics.TrendStable:    "➡️",
	analytics.TrendDeclining: "📉",
	analytics.TrendUnknown:   "❓",
}

// Metabolic renders /metabolic.
func Metabolic(m analytics.Metabolic) string {
	var b strings.Builder
	filled := m.Score / 10
	b.WriteString("🔬 *Metabolic status*\n\n")
	b.WriteString("*Fat adaptation*\n")
	fmt.Fprintf(&b, "%s%s %d%%\n", strings.Repeat("🟢", filled), strings.Repeat("⚪", 10-filled), m.Score)
	fmt.Fprintf(&b, "📊 %s\n\n", m.Label)

	fmt.Fprintf(&b, "*Indicators (%d days)*\n", analytics.MetabolicWindowDays)
	fmt.Fprintf(&b, "📅 Days on protocol: %d\n", m.DaysOnProtocol)
	fmt.Fprintf(&b, "🥩 Carnivore compliance: %.0f%%\n", m.ComplianceRate)
	fmt.Fprintf(&b, "%s Electrolyte risk: %s\n", riskEmoji[m.ElectrolyteRisk], m.ElectrolyteRisk)
	fmt.Fprintf(&b, "%s Energy trend: %s\n", trendEmoji[m.EnergyTrend], m.EnergyTrend)
	fmt.Fprintf(&b, "⚖️ Weight: %s\n\n", m.WeightTrend)

	fmt.Fprintf(&b, "*Daily averages (%d days)*\n", analytics.NutritionWindowDays)
	fmt.Fprintf(&b, "💪 Protein: %.0fg\n🧈 Fat: %.0fg\n🔥 Calories: %.0f\n", m.AvgDailyProteinG, m.AvgDailyFatG, m.AvgDailyCalories)
	if m.AvgFatProteinRatio != nil {
		fmt.Fprintf(&b, "📐 Fat:protein: %.2f\n", *m.AvgFatProteinRatio)
	}

	if m.FastingFrequency > 0 {
		fmt.Fprintf(&b, "\n*Fasting*\n📊 Frequency: %.1f/week\n⏱️ Average: %.1fh\n", m.FastingFrequency, m.AvgFastingHours)
	}
	if len(m.CommonSymptoms) > 0 {
		b.WriteString("\n*Common symptoms*\n")
		for _, s := range m.CommonSymptoms {
			fmt.Fprintf(&b, "• %s (%dx)\n", keyboards.SymptomLabel(s.Type), s.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FastToggled renders the result of /fast.
func FastToggled(t *services.FastToggle, loc *time.Location) string {
	start := t.Fast.Start.In(loc).Format("15:04")
	if t.Started {
		return "▶️ *Fast started!*\n\n🕐 Start: " + start + "\n\nUse /fast again to stop."
	}
	end := ""
	if t.Fast.End != nil {
		end = t.Fast.End.In(loc).Format("15:04")
	}
	return fmt.Sprintf("⏹️ *Fast finished!*\n\n⏱️ Duration: %.1f hours\n🕐 Start: %s\n🕐 End: %s", t.DurationHours, start, end)
}

var stageText = map[services.FastStage]string{
	services.StageEarly:      "🟡 Early fast",
	services.StageFatBurning: "🟢 Fat burning zone",
	services.StageAutophagy:  "🔥 Autophagy",
	services.StageExtended:   "⚡ Extended fast",
}

// FastStatus renders /faststatus.
func FastStatus(s *services.FastStatus, loc *time.Location) string {
	return fmt.Sprintf("⏳ *Fast in progress*\n\n%s\n\n⏱️ *Duration:* %.1f hours\n🕐 *Start:* %s\n\nUse /fast to stop.",
		stageText[s.Stage], s.Elapsed.Hours(), s.Fast.Start.In(loc).Format("02/01 15:04"))
}

const NoActiveFast = "😴 *No active fast*\n\nUse /fast to start one."

// SymptomUsage lists the symptom types for /symptom without arguments.
func SymptomUsage() string {
	var b strings.Builder
	b.WriteString("*Log a symptom*\n\nUsage: `/symptom <type> <severity 1-5>`\n\n*Types:*\n")
	for _, t := range domain.SymptomTypes {
		fmt.Fprintf(&b, "%s `%s`\n", symptomEmojiOnly(t), t)
	}
	b.WriteString("\nExample: `/symptom headache 3`")
	return b.String()
}

func symptomEmojiOnly(t domain.SymptomType) string {
	label := keyboards.SymptomLabel(t)
	if i := strings.IndexByte(label, ' '); i > 0 {
		return label[:i]
	}
	return label
}

// SymptomLogged confirms a symptom.
func SymptomLogged(s *domain.SymptomEvent) string {
	return fmt.Sprintf("✅ *Symptom logged*\n\n🩺 Type: %s\n📊 Severity: %s (%d/5)",
		EscapeMarkdown(keyboards.SymptomLabel(s.Type)), severityBar(s.Severity), s.Severity)
}

// SymptomsToday renders /symptoms.
func SymptomsToday(list []domain.SymptomEvent, loc *time.Location) string {
	if len(list) == 0 {
		return "✅ *No symptoms logged today*\n\nUse `/symptom <type> <1-5>` to log one."
	}
	lines := make([]string, 0, len(list))
	for _, s := range list {
		lines = append(lines, fmt.Sprintf("• %s - %s %s", s.Timestamp.In(loc).Format("15:04"),
			EscapeMarkdown(keyboards.SymptomLabel(s.Type)), severityBar(s.Severity)))
	}
	return "🩺 *Today's symptoms*\n\n" + strings.Join(lines, "\n")
}

// WeightLogged confirms a weight and shows the change from the last entry.
func WeightLogged(e *services.WeightEntry) string {
	msg := fmt.Sprintf("✅ *Weight logged*\n\n⚖️ %.1f kg", e.Event.WeightKg)
	if e.ChangeKg != nil {
		trend := "➡️"
		switch {
		case *e.ChangeKg < 0:
			trend = "📉"
		case *e.ChangeKg > 0:
			trend = "📈"
		}
		msg += fmt.Sprintf("\n%s Change: %+.1f kg", trend, *e.ChangeKg)
	}
	return msg
}

const WeightUsage = "⚖️ *Log weight*\n\nUsage: `/weight <kg>`\nExample: `/weight 85.5`"

// WeightHistory renders the latest entries, newest first.
func WeightHistory(list []domain.WeightEvent, loc *time.Location) string {
	if len(list) == 0 {
		return WeightUsage
	}
	lines := make([]string, 0, len(list))
	for _, w := range list {
		lines = append(lines, fmt.Sprintf("• %s: %.1f kg", w.Timestamp.In(loc).Format("2006-01-02"), w.WeightKg))
	}
	return "⚖️ *Weight history*\n\n" + strings.Join(lines, "\n")
}

// Goals confirms new daily targets.
func Goals(g *domain.Goals) string {
	return fmt.Sprintf("🎯 *Goals saved*\n\n🔥 %d kcal\n💪 %dg protein\n🧈 %dg fat", g.Calories, g.ProteinG, g.FatG)
}

// LevelChanged confirms a new diet level.
func LevelChanged(l diet.Level) string {
	return fmt.Sprintf("✅ Level set to %s *%s*", l.Emoji(), l.Description())
}
