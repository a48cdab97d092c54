package handlers

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/menus"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	responder
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api BotAPI, deps Dependencies, stateManager state.StateManager, loc *time.Location) *CallbackHandler {
	return &CallbackHandler{responder{api: api, deps: deps, stateManager: stateManager, loc: loc}}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *domain.User) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.WithContext(ctx).Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	switch prefix, value := keyboards.SplitData(query.Data); prefix {
	case keyboards.PrefixLevel:
		return h.setLevel(ctx, chatID, user, value)
	case keyboards.PrefixSymptomType:
		return h.askSeverity(chatID, user, value)
	case keyboards.PrefixSymptomSeverity:
		return h.severityAnswer(ctx, chatID, user, value)
	}

	switch query.Data {
	case keyboards.CallbackMainMenu:
		h.stateManager.ClearUserState(user.TelegramID)
		h.stateManager.ClearTempData(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID, "")
	case keyboards.CallbackLogMeal:
		h.stateManager.SetUserState(user.TelegramID, state.WaitingForMeal)
		return h.send(chatID, mealPrompt, keyboards.BackToMain())
	case keyboards.CallbackToday:
		return h.showStats(ctx, chatID, user)
	case keyboards.CallbackDiet:
		return h.showDiet(ctx, chatID, user)
	case keyboards.CallbackFastToggle:
		return h.toggleFast(ctx, chatID, user)
	case keyboards.CallbackFastStatus:
		return h.showFastStatus(ctx, chatID, user)
	case keyboards.CallbackWeight:
		h.stateManager.SetUserState(user.TelegramID, state.WaitingForWeight)
		return h.send(chatID, weightPrompt, keyboards.BackToMain())
	case keyboards.CallbackSymptom:
		return h.send(chatID, "🩺 *Which symptom?*", keyboards.SymptomMenu())
	case keyboards.CallbackMetabolic:
		return h.showMetabolic(ctx, chatID, user)
	case keyboards.CallbackWeekly:
		return h.showWeekly(ctx, chatID, user)
	case keyboards.CallbackSuggest:
		return h.suggest(ctx, chatID, user)
	case keyboards.CallbackNotes:
		return h.showNotes(ctx, chatID, user)
	case keyboards.CallbackSettings:
		return h.send(chatID, "⚙️ *Choose your carnivore level*", keyboards.LevelMenu(user.PreferredLevel))
	case keyboards.CallbackHelp:
		return h.sendPlain(chatID, menus.Help)
	default:
		return h.handleUnknownCallback(chatID)
	}
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	return menus.SendMainMenu(h.api, chatID, "Unknown action. Choose an action:")
}
