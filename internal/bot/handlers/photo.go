package handlers

import (
	"context"
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

// PhotoHandler handles photo messages
type PhotoHandler struct {
	responder
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(api BotAPI, deps Dependencies, stateManager state.StateManager, loc *time.Location) *PhotoHandler {
	return &PhotoHandler{responder{api: api, deps: deps, stateManager: stateManager, loc: loc}}
}

// Handle processes a photo message
func (h *PhotoHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *domain.User) error {
	chatID := message.Chat.ID

	// Get the largest photo
	photo := message.Photo[len(message.Photo)-1]
	url, err := h.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return h.replyError(ctx, chatID, apperrors.NewExternalAPIError(err, "telegram"))
	}

	logger.WithContext(ctx).Info("Starting photo analysis", "file_id", photo.FileID)
	var report *services.MealReport
	err = h.withProgress(chatID, "📸 Analyzing the photo...", func() error {
		report, err = h.deps.MealSvc.LogMealFromPhoto(ctx, user, url)
		return err
	})
	if err != nil {
		return h.replyError(ctx, chatID, err)
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)

	// Telegram limits captions to 1024 characters.
	caption := menus.MealLogged(report)
	if len([]rune(caption)) > 1000 {
		return h.send(chatID, caption, keyboards.MainMenu())
	}
	photoMsg := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(photo.FileID))
	photoMsg.Caption = caption
	photoMsg.ParseMode = tgbotapi.ModeMarkdown
	photoMsg.ReplyMarkup = keyboards.MainMenu()
	if _, err := h.api.Send(photoMsg); err != nil {
		// If Markdown parsing fails, try sending without Markdown
		photoMsg.ParseMode = ""
		if _, err := h.api.Send(photoMsg); err != nil {
			return err
		}
	}
	return nil
}
