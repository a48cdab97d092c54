package handlers

import (
	"context"
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

// CommandHandler handles bot commands
type CommandHandler struct {
	responder
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api BotAPI, deps Dependencies, stateManager state.StateManager, loc *time.Location) *CommandHandler {
	return &CommandHandler{responder{api: api, deps: deps, stateManager: stateManager, loc: loc}}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	logger.WithContext(ctx).Info("Handling command", "command", message.Command())

	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())

	switch message.Command() {
	case "start":
		h.stateManager.ClearUserState(user.TelegramID)
		h.stateManager.ClearTempData(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID, menus.Welcome(user.FirstName, user.PreferredLevel))
	case "help":
		return h.sendPlain(chatID, menus.Help)
	case "level":
		if len(args) == 0 {
			return h.send(chatID, "⚙️ *Choose your carnivore level*", keyboards.LevelMenu(user.PreferredLevel))
		}
		return h.setLevel(ctx, chatID, user, args[0])
	case "goals":
		if len(args) == 0 {
			return h.showGoals(ctx, chatID, user)
		}
		return h.setGoals(ctx, chatID, user, args)
	case "stats":
		return h.showStats(ctx, chatID, user)
	case "diet":
		return h.showDiet(ctx, chatID, user)
	case "check":
		return h.handleCheck(chatID, user, message.CommandArguments())
	case "fast":
		return h.toggleFast(ctx, chatID, user)
	case "faststatus":
		return h.showFastStatus(ctx, chatID, user)
	case "symptom":
		return h.handleSymptom(ctx, chatID, user, args)
	case "symptoms":
		return h.showSymptomsToday(ctx, chatID, user)
	case "weight":
		if len(args) == 0 {
			return h.showWeightHistory(ctx, chatID, user)
		}
		return h.logWeight(ctx, chatID, user, args[0])
	case "metabolic":
		return h.showMetabolic(ctx, chatID, user)
	case "report":
		if len(args) > 0 && strings.EqualFold(args[0], "weekly") {
			return h.showWeekly(ctx, chatID, user)
		}
		return h.showDailyReport(ctx, chatID, user)
	case "notes":
		return h.showNotes(ctx, chatID, user)
	case "suggest":
		return h.suggest(ctx, chatID, user)
	case "recipe":
		return h.handleRecipe(ctx, chatID, user, strings.Join(args, " "))
	case "plan_tomorrow":
		return h.handlePlan(ctx, chatID, user, services.PlanTomorrow)
	case "plan_week":
		return h.handlePlan(ctx, chatID, user, services.PlanWeek)
	case "export":
		return h.handleExport(ctx, chatID, user, args)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

func (h *CommandHandler) showGoals(ctx context.Context, chatID int64, user *domain.User) error {
	goals, err := h.deps.UserService.GetGoals(ctx, user)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForGoals)
	text := goalsPrompt
	if goals != nil {
		text = menus.Goals(goals) + "\n\n" + goalsPrompt
	}
	return h.send(chatID, text, keyboards.BackToMain())
}

// handleCheck judges a comma separated list without logging it.
func (h *CommandHandler) handleCheck(chatID int64, user *domain.User, raw string) error {
	var ingredients []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}
	if len(ingredients) == 0 {
		return h.send(chatID, "Usage: `/check ribeye, butter, cheese`", nil)
	}
	return h.send(chatID, menus.Check(h.deps.MealSvc.CheckIngredients(user, ingredients)), keyboards.BackToMain())
}

// handleSymptom accepts "/symptom <type> [severity] [notes...]".
func (h *CommandHandler) handleSymptom(ctx context.Context, chatID int64, user *domain.User, args []string) error {
	switch len(args) {
	case 0:
		return h.send(chatID, menus.SymptomUsage(), keyboards.SymptomMenu())
	case 1:
		return h.askSeverity(chatID, user, args[0])
	}
	severity, err := strconv.Atoi(args[1])
	if err != nil {
		return h.replyError(ctx, chatID, apperrors.NewInvalidError(apperrors.CodeInvalidSeverity, "severity %q is not a number", args[1]))
	}
	return h.logSymptom(ctx, chatID, user, args[0], severity, strings.Join(args[2:], " "))
}

func (h *CommandHandler) handleRecipe(ctx context.Context, chatID int64, user *domain.User, preference string) error {
	var recipe *services.Recipe
	err := h.withProgress(chatID, "👨‍🍳 Creating a carnivore recipe...", func() error {
		var err error
		recipe, err = h.deps.AdvisorSvc.Recipe(ctx, user, preference)
		return err
	})
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	return h.send(chatID, menus.Recipe(recipe), keyboards.MainMenu())
}

func (h *CommandHandler) handlePlan(ctx context.Context, chatID int64, user *domain.User, span services.PlanSpan) error {
	var plan string
	err := h.withProgress(chatID, "👨‍🍳 Putting your meal plan together...", func() error {
		var err error
		plan, err = h.deps.AdvisorSvc.Plan(ctx, user, span)
		return err
	})
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	return h.send(chatID, menus.Plan(span, plan), keyboards.BackToMain())
}

// handleExport accepts "/export <csv|json> [daily|weekly]" and replies with
// a document.
func (h *CommandHandler) handleExport(ctx context.Context, chatID int64, user *domain.User, args []string) error {
	if len(args) == 0 {
		return h.send(chatID, menus.ExportUsage, nil)
	}
	format, err := services.ParseExportFormat(args[0])
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	var rawPeriod string
	if len(args) > 1 {
		rawPeriod = args[1]
	}
	period, err := services.ParseExportPeriod(rawPeriod)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}

	file, err := h.deps.AnalyticsSvc.Export(ctx, user, format, period)
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: file.Name, Bytes: file.Data})
	doc.Caption = menus.ExportCaption(format, period, file.Meals)
	if _, err := h.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send export: %w", err)
	}
	return nil
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return h.sendPlain(chatID, "Unknown command. Use /help to see the available commands.")
}
