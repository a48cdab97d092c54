package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

// updateSource is the part of *tgbotapi.BotAPI the polling loop needs.
type updateSource interface {
	handlers.BotAPI
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api           updateSource
	updateHandler *handlers.UpdateHandler
	errHandler    *apperrors.Handler
	workers       int
	wg            sync.WaitGroup
}

var _ domain.BotService = (*Bot)(nil)

// Options configure the bot beyond its token.
type Options struct {
	Workers  int
	Location *time.Location
}

func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	logger.Info("Bot authorized", "account", api.Self.UserName)
	return newBot(api, deps, stateManager, opts), nil
}

func newBot(api updateSource, deps handlers.Dependencies, stateManager state.StateManager, opts Options) *Bot {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Bot{
		api:           api,
		updateHandler: handlers.NewUpdateHandler(api, deps, stateManager, opts.Location),
		errHandler:    apperrors.NewHandler(logger.GetLogger()),
		workers:       opts.Workers,
	}
}

// Start polls for updates until ctx is cancelled. At most Workers updates
// are handled at once.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates", "workers", b.workers)

	sem := make(chan struct{}, b.workers)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down")
			b.wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.wg.Wait()
				return nil
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				continue
			}
			b.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer func() {
					<-sem
					b.wg.Done()
				}()
				b.handle(ctx, update)
			}(update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic while handling update",
				"update_id", update.UpdateID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	if err := b.updateHandler.Handle(ctx, update); err != nil {
		b.errHandler.Handle(ctx, err)
	}
}

// Stop ends long polling. Start returns once in-flight updates finish.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
