package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
	photoHandler    *PhotoHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api BotAPI, deps Dependencies, stateManager state.StateManager, loc *time.Location) *UpdateHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &UpdateHandler{
		deps:            deps,
		callbackHandler: NewCallbackHandler(api, deps, stateManager, loc),
		commandHandler:  NewCommandHandler(api, deps, stateManager, loc),
		textHandler:     NewTextHandler(api, deps, stateManager, loc),
		photoHandler:    NewPhotoHandler(api, deps, stateManager, loc),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	}
	if from == nil {
		return nil
	}

	ctx = logger.ContextWithUser(ctx, from.ID)

	// Get or create user
	user, err := h.deps.UserService.RegisterUser(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	if update.CallbackQuery != nil {
		return h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	}

	message := update.Message
	switch {
	case message.IsCommand():
		return h.commandHandler.Handle(ctx, message, user)
	case len(message.Photo) > 0:
		return h.photoHandler.Handle(ctx, message, user)
	case message.Voice != nil:
		return h.textHandler.HandleVoice(ctx, message, user)
	case message.Text != "":
		return h.textHandler.Handle(ctx, message, user)
	}
	return nil
}
