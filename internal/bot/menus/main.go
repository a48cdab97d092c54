package menus

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
)

// Sender is what menus need to deliver a message.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Welcome is the /start text.
func Welcome(firstName string, level diet.Level) string {
	name := EscapeMarkdown(firstName)
	if name == "" {
		name = "carnivore"
	}
	return "🥩 *Carnivore Helper*\n\n" +
		"Hi " + name + "! Send me what you ate as text, a voice caption or a photo and I will:\n" +
		"• List the ingredients and estimate macros\n" +
		"• Check them against your carnivore level\n" +
		"• Track fasts, symptoms and weight\n\n" +
		"Your level: " + level.Emoji() + " *" + level.Description() + "*\n\n" +
		"Choose an action:"
}

// Help lists the commands.
const Help = `Available commands:
/start - Show the main menu
/help - Show this message
/level strict|relaxed - Set your carnivore level
/goals <kcal> <protein> <fat> - Set daily targets
/stats - Today's totals against your goals
/diet - Today's meals
/check <a>, <b> - Check ingredients without logging
/fast - Start or stop a fast
/faststatus - Show the running fast
/symptom <type> <1-5> - Log a symptom
/symptoms - Today's symptoms
/weight [kg] - Log weight or show history
/metabolic - Metabolic adaptation status
/report [daily|weekly] - Daily or weekly report
/notes - Today's notes that were not logged as meals
/suggest - What to eat next, based on your goals
/recipe [preference] - A carnivore recipe
/plan_tomorrow - Meal plan for tomorrow
/plan_week - Meal plan for the week
/export csv|json [daily|weekly] - Download your meals

Anything else you type is read as a meal.`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64, text string) error {
	if text == "" {
		text = "Choose an action:"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// EscapeMarkdown escapes the characters legacy Markdown treats as markup.
func EscapeMarkdown(s string) string {
	r := strings.NewReplacer("_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "`", "\\`")
	return strings.ToValidUTF8(r.Replace(s), "")
}

// Truncate shortens s to max runes, adding an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
