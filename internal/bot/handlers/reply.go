package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/menus"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

const weightHistoryLimit = 7

// responder holds what every handler needs and the actions reachable from
// both commands and buttons.
type responder struct {
	api          BotAPI
	deps         Dependencies
	stateManager state.StateManager
	loc          *time.Location
}

// send delivers Markdown text and falls back to plain text when Telegram
// rejects the markup.
func (r *responder) send(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := r.api.Send(msg); err != nil {
		msg.ParseMode = ""
		if _, err := r.api.Send(msg); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
	}
	return nil
}

func (r *responder) sendPlain(chatID int64, text string) error {
	_, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// replyError logs err and tells the user what went wrong. Only a failed
// send is returned.
func (r *responder) replyError(ctx context.Context, chatID int64, err error) error {
	apperrors.NewHandler(logger.WithContext(ctx)).Handle(ctx, err)
	return r.send(chatID, menus.ErrorMessage(err), keyboards.BackToMain())
}

// withProgress shows a placeholder while fn runs and removes it afterwards.
func (r *responder) withProgress(chatID int64, text string, fn func() error) error {
	sent, err := r.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return fmt.Errorf("failed to send processing message: %w", err)
	}
	defer func() {
		if _, err := r.api.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			logger.Debug("Failed to delete processing message", "error", err)
		}
	}()
	return fn()
}

func (r *responder) logMeal(ctx context.Context, chatID int64, user *domain.User, text string, source domain.EventSource) error {
	var report *services.MealReport
	err := r.withProgress(chatID, "🔍 Analyzing your meal...", func() error {
		var err error
		report, err = r.deps.MealSvc.LogMealFromText(ctx, user, text, source)
		return err
	})
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	r.stateManager.SetUserState(user.TelegramID, state.None)
	return r.send(chatID, menus.MealLogged(report), keyboards.MainMenu())
}

func (r *responder) showStats(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := r.deps.AnalyticsSvc.Daily(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.DailyStats(report), keyboards.BackToMain())
}

func (r *responder) showDiet(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := r.deps.AnalyticsSvc.Daily(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.DietLog(report, r.loc), keyboards.BackToMain())
}

func (r *responder) showDailyReport(ctx context.Context, chatID int64, user *domain.User) error {
	report, err := r.deps.AnalyticsSvc.Daily(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	fast, err := r.deps.TrackingSvc.FastStatus(ctx, user)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNoActiveFast) {
			return r.replyError(ctx, chatID, err)
		}
		fast = nil
	}
	symptoms, err := r.deps.TrackingSvc.SymptomsToday(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.DailyReport(report, fast, symptoms, r.loc), keyboards.BackToMain())
}

func (r *responder) showWeekly(ctx context.Context, chatID int64, user *domain.User) error {
	weekly, err := r.deps.AnalyticsSvc.Weekly(ctx, user, 0)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.Weekly(weekly), keyboards.BackToMain())
}

func (r *responder) showMetabolic(ctx context.Context, chatID int64, user *domain.User) error {
	m, err := r.deps.AnalyticsSvc.Metabolic(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.Metabolic(m), keyboards.BackToMain())
}

func (r *responder) toggleFast(ctx context.Context, chatID int64, user *domain.User) error {
	toggle, err := r.deps.TrackingSvc.ToggleFast(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.FastToggled(toggle, r.loc), keyboards.BackToMain())
}

func (r *responder) showFastStatus(ctx context.Context, chatID int64, user *domain.User) error {
	status, err := r.deps.TrackingSvc.FastStatus(ctx, user)
	if errors.Is(err, apperrors.ErrNoActiveFast) {
		return r.send(chatID, menus.NoActiveFast, keyboards.BackToMain())
	}
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.FastStatus(status, r.loc), keyboards.BackToMain())
}

func (r *responder) logSymptom(ctx context.Context, chatID int64, user *domain.User, rawType string, severity int, notes string) error {
	symptom, err := r.deps.TrackingSvc.LogSymptom(ctx, user, rawType, severity, notes)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	r.stateManager.ClearUserState(user.TelegramID)
	r.stateManager.ClearTempData(user.TelegramID)
	return r.send(chatID, menus.SymptomLogged(symptom), keyboards.BackToMain())
}

// askSeverity remembers the symptom type and waits for a 1-5 answer.
func (r *responder) askSeverity(chatID int64, user *domain.User, rawType string) error {
	typ, err := domain.ParseSymptomType(rawType)
	if err != nil {
		return r.send(chatID, menus.SymptomUsage(), nil)
	}
	r.stateManager.SetUserState(user.TelegramID, state.WaitingForSymptomSeverity)
	r.stateManager.SetTempData(user.TelegramID, state.KeySymptomType, string(typ))
	return r.send(chatID, "How bad is "+menus.EscapeMarkdown(keyboards.SymptomLabel(typ))+"? (1 = mild, 5 = severe)",
		keyboards.SeverityMenu())
}

func (r *responder) severityAnswer(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	rawType, ok := r.stateManager.GetTempData(user.TelegramID, state.KeySymptomType)
	if !ok {
		r.stateManager.ClearUserState(user.TelegramID)
		return r.send(chatID, "Please pick the symptom first.", keyboards.SymptomMenu())
	}
	severity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return r.replyError(ctx, chatID, apperrors.NewInvalidError(apperrors.CodeInvalidSeverity, "severity %q is not a number", raw))
	}
	return r.logSymptom(ctx, chatID, user, rawType, severity, "")
}

func (r *responder) showSymptomsToday(ctx context.Context, chatID int64, user *domain.User) error {
	list, err := r.deps.TrackingSvc.SymptomsToday(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.SymptomsToday(list, r.loc), keyboards.BackToMain())
}

func (r *responder) logWeight(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	kg, err := services.ParseWeight(raw)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	entry, err := r.deps.TrackingSvc.LogWeight(ctx, user, kg)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	r.stateManager.ClearUserState(user.TelegramID)
	return r.send(chatID, menus.WeightLogged(entry), keyboards.BackToMain())
}

func (r *responder) showWeightHistory(ctx context.Context, chatID int64, user *domain.User) error {
	list, err := r.deps.TrackingSvc.WeightHistory(ctx, user, weightHistoryLimit)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.WeightHistory(list, r.loc), keyboards.BackToMain())
}

func (r *responder) showNotes(ctx context.Context, chatID int64, user *domain.User) error {
	notes, err := r.deps.TrackingSvc.NotesToday(ctx, user)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.Notes(notes, r.loc), keyboards.BackToMain())
}

func (r *responder) suggest(ctx context.Context, chatID int64, user *domain.User) error {
	var s *services.Suggestion
	err := r.withProgress(chatID, "🤔 Thinking about your next meal...", func() error {
		var err error
		s, err = r.deps.AdvisorSvc.Suggest(ctx, user)
		return err
	})
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.Suggestion(s), keyboards.BackToMain())
}

// setGoals expects "<kcal> <protein> <fat>".
func (r *responder) setGoals(ctx context.Context, chatID int64, user *domain.User, fields []string) error {
	if len(fields) != 3 {
		return r.send(chatID, goalsPrompt, keyboards.BackToMain())
	}
	values := make([]int, 3)
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(f), "g"))
		if err != nil {
			return r.replyError(ctx, chatID, apperrors.NewInvalidError(apperrors.CodeInvalidInput, "%q is not a whole number", f))
		}
		values[i] = v
	}
	goals, err := r.deps.UserService.SetGoals(ctx, user, values[0], values[1], values[2])
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	r.stateManager.ClearUserState(user.TelegramID)
	return r.send(chatID, menus.Goals(goals), keyboards.BackToMain())
}

func (r *responder) setLevel(ctx context.Context, chatID int64, user *domain.User, raw string) error {
	level, err := r.deps.UserService.SetLevel(ctx, user, raw)
	if err != nil {
		return r.replyError(ctx, chatID, err)
	}
	return r.send(chatID, menus.LevelChanged(level), keyboards.BackToMain())
}

const goalsPrompt = "🎯 *Daily goals*\n\nSend three numbers: calories, protein (g), fat (g).\nExample: `2000 150 140`"

const weightPrompt = "⚖️ Send your weight in kg, e.g. `85.5`"

const mealPrompt = "🍽️ *Log a meal*\n\nDescribe what you ate or send a photo.\nExample: `300g ribeye, 2 eggs, butter`"
