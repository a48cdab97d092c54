package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/interfaces"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	UserService  interfaces.UserServiceInterface
	MealSvc      interfaces.MealServiceInterface
	TrackingSvc  interfaces.TrackingServiceInterface
	AnalyticsSvc interfaces.AnalyticsServiceInterface
	AdvisorSvc   interfaces.AdvisorServiceInterface
}

// BotAPI is the part of *tgbotapi.BotAPI the handlers use.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

var _ BotAPI = (*tgbotapi.BotAPI)(nil)
