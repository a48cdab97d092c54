package menus

import (
	"fmt"
	"strings"
	"time"

	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

// Suggestion renders /suggest.
func Suggestion(s *services.Suggestion) string {
	var b strings.Builder
	b.WriteString("🍖 *Suggestion*\n\n")
	if r := s.Remaining; r != nil {
		fmt.Fprintf(&b, "Still to go today: 🔥 %d kcal | 💪 %dg protein | 🧈 %dg fat\n\n", r.Calories, r.ProteinG, r.FatG)
	}
	b.WriteString(EscapeMarkdown(s.Text))
	if s.Remaining == nil {
		b.WriteString("\n\n_Set /goals to get suggestions that fit your day._")
	}
	return b.String()
}

// Recipe renders /recipe with the rules engine's verdict on its ingredients.
func Recipe(r *services.Recipe) string {
	if r.Raw != "" {
		return "🍖 *Carnivore recipe*\n\n" + EscapeMarkdown(r.Raw)
	}

	var b strings.Builder
	name := r.Name
	if name == "" {
		name = "Carnivore recipe"
	}
	fmt.Fprintf(&b, "🍖 *%s*\n\n📋 *Ingredients:*\n", EscapeMarkdown(name))
	for _, ing := range r.Ingredients {
		b.WriteString("• " + EscapeMarkdown(ing) + "\n")
	}
	if len(r.Steps) > 0 {
		b.WriteString("\n👨‍🍳 *Steps:*\n")
		for i, step := range r.Steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, EscapeMarkdown(step))
		}
	}
	fmt.Fprintf(&b, "\n📊 *Estimated:* 🔥 %.0f kcal | 💪 %.0fg protein | 🧈 %.0fg fat\n", r.Calories, r.ProteinG, r.FatG)
	if r.TimeMinutes > 0 {
		fmt.Fprintf(&b, "⏱️ ~%d min\n", r.TimeMinutes)
	}
	if r.Tips != "" {
		b.WriteString("\n💡 " + EscapeMarkdown(r.Tips) + "\n")
	}
	b.WriteString("\n" + Check(r.Validation))
	return b.String()
}

// Plan renders /plan_tomorrow and /plan_week.
func Plan(span services.PlanSpan, text string) string {
	title := "📅 *Menu for tomorrow*"
	if span == services.PlanWeek {
		title = "🗓️ *Weekly plan*"
	}
	return title + "\n\n" + EscapeMarkdown(text)
}

// Notes renders /notes: today's inputs kept as text.
func Notes(list []domain.VoiceNote, loc *time.Location) string {
	if len(list) == 0 {
		return "📝 *No notes today*"
	}
	lines := make([]string, 0, len(list))
	for _, n := range list {
		icon := "📝"
		if n.FoodDetected {
			icon = "🍽️"
		}
		lines = append(lines, fmt.Sprintf("• %s %s %s", n.Timestamp.In(loc).Format("15:04"), icon,
			EscapeMarkdown(Truncate(n.Transcription, 100))))
	}
	return "🎙️ *Today's notes*\n\n" + strings.Join(lines, "\n\n")
}

const ExportUsage = "📤 *Export data*\n\n" +
	"Usage: `/export <format> [period]`\n\n" +
	"*Formats:* `csv`, `json`\n" +
	"*Periods:* `daily` (default), `weekly` (last 7 days)\n\n" +
	"Example: `/export csv weekly`"

// ExportCaption describes a generated export file.
func ExportCaption(format services.ExportFormat, period services.ExportPeriod, meals int) string {
	return fmt.Sprintf("🦁 %s export (%s), %d meal(s)", strings.ToUpper(string(format)), period, meals)
}
