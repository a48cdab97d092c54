package handlers

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
)

// TextHandler handles text messages
type TextHandler struct {
	responder
}

// NewTextHandler creates a new text handler
func NewTextHandler(api BotAPI, deps Dependencies, stateManager state.StateManager, loc *time.Location) *TextHandler {
	return &TextHandler{responder{api: api, deps: deps, stateManager: stateManager, loc: loc}}
}

// Handle answers a pending prompt or, failing that, reads the text as a meal.
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID

	switch h.stateManager.GetUserState(user.TelegramID) {
	case state.WaitingForWeight:
		return h.logWeight(ctx, chatID, user, message.Text)
	case state.WaitingForGoals:
		return h.setGoals(ctx, chatID, user, strings.Fields(message.Text))
	case state.WaitingForSymptomSeverity:
		return h.severityAnswer(ctx, chatID, user, message.Text)
	default:
		return h.logMeal(ctx, chatID, user, message.Text, domain.SourceText)
	}
}

// HandleVoice logs the caption of a voice message as a spoken meal.
func (h *TextHandler) HandleVoice(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	if strings.TrimSpace(message.Caption) == "" {
		return h.sendPlain(message.Chat.ID,
			"🎙️ I can't listen to voice messages yet. Please type what you ate or add it as a caption.")
	}
	return h.logMeal(ctx, message.Chat.ID, user, message.Caption, domain.SourceVoice)
}
