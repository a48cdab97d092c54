package keyboards

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
)

// Callback data
const (
	CallbackMainMenu      = "main_menu"
	CallbackLogMeal       = "log_meal"
	CallbackToday         = "today"
	CallbackDiet          = "diet"
	CallbackFastToggle    = "fast_toggle"
	CallbackFastStatus    = "fast_status"
	CallbackWeight        = "weight"
	CallbackSymptom       = "symptom"
	CallbackMetabolic     = "metabolic"
	CallbackWeekly        = "report_weekly"
	CallbackSuggest       = "suggest"
	CallbackNotes         = "notes"
	CallbackSettings      = "settings"
	CallbackHelp          = "help"
	PrefixLevel           = "level:"
	PrefixSymptomType     = "symptom:"
	PrefixSymptomSeverity = "severity:"
)

// SplitData separates a prefixed callback into prefix and value.
func SplitData(data string) (prefix, value string) {
	if i := strings.IndexByte(data, ':'); i >= 0 {
		return data[:i+1], data[i+1:]
	}
	return data, ""
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍽️ Log meal", CallbackLogMeal),
			tgbotapi.NewInlineKeyboardButtonData("🦁 Today's meals", CallbackDiet),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", CallbackToday),
			tgbotapi.NewInlineKeyboardButtonData("📅 Weekly", CallbackWeekly),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱️ Start/stop fast", CallbackFastToggle),
			tgbotapi.NewInlineKeyboardButtonData("⏳ Fast status", CallbackFastStatus),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Weight", CallbackWeight),
			tgbotapi.NewInlineKeyboardButtonData("🩺 Symptom", CallbackSymptom),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍖 Suggest", CallbackSuggest),
			tgbotapi.NewInlineKeyboardButtonData("📝 Notes", CallbackNotes),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧬 Metabolic", CallbackMetabolic),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Level", CallbackSettings),
		),
	)
}

// BackToMain is a single "main menu" button.
func BackToMain() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// LevelMenu offers the levels a user can aim for and marks the current one.
func LevelMenu(current diet.Level) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
	for _, l := range []diet.Level{diet.Strict, diet.Relaxed} {
		label := l.Emoji() + " " + l.Description()
		if l == current {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, PrefixLevel+l.String()))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
		),
	)
}

// SymptomMenu lists every symptom type, two per row.
func SymptomMenu() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range domain.SymptomTypes {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(SymptomLabel(t), PrefixSymptomType+string(t)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// SeverityMenu offers severities 1 to 5.
func SeverityMenu() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, domain.MaxSeverity)
	for s := domain.MinSeverity; s <= domain.MaxSeverity; s++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprint(s), fmt.Sprintf("%s%d", PrefixSymptomSeverity, s)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		row,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", CallbackMainMenu),
		),
	)
}

var symptomEmoji = map[domain.SymptomType]string{
	domain.SymptomDizziness:    "😵",
	domain.SymptomWeakness:     "💪",
	domain.SymptomHeadache:     "🤕",
	domain.SymptomCramps:       "🦵",
	domain.SymptomDiarrhea:     "🚽",
	domain.SymptomConstipation: "🚫",
	domain.SymptomBrainFog:     "🧠",
	domain.SymptomNausea:       "🤢",
	domain.SymptomHighEnergy:   "⚡",
	domain.SymptomLowEnergy:    "😴",
}

// SymptomLabel is the emoji plus name shown for a symptom.
func SymptomLabel(t domain.SymptomType) string {
	return symptomEmoji[t] + " " + strings.ReplaceAll(string(t), "_", " ")
}
