package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/repository"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

type fakeSource struct {
	mu      sync.Mutex
	sent    int
	updates chan tgbotapi.Update
	once    sync.Once
}

func (f *fakeSource) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	return tgbotapi.Message{MessageID: f.sent}, nil
}

func (f *fakeSource) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSource) GetFileDirectURL(fileID string) (string, error) {
	return "https://files.example/" + fileID, nil
}

func (f *fakeSource) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeSource) StopReceivingUpdates() {
	f.once.Do(func() { close(f.updates) })
}

func (f *fakeSource) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

func helpUpdate(userID int64) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: userID},
		Chat:     &tgbotapi.Chat{ID: userID},
		Text:     "/help",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Length: 5}},
	}}
}

func TestStartHandlesUpdatesUntilStopped(t *testing.T) {
	users := repository.NewMemoryUserStore(diet.Strict)
	events := repository.NewMemoryEventStore()
	deps := handlers.Dependencies{
		UserService:  services.NewUserService(users),
		TrackingSvc:  services.NewTrackingService(events, time.UTC),
		AnalyticsSvc: services.NewAnalyticsService(events, users, time.UTC),
	}
	src := &fakeSource{updates: make(chan tgbotapi.Update, 10)}
	b := newBot(src, deps, state.NewManager(), Options{Workers: 3})

	for i := int64(1); i <= 5; i++ {
		src.updates <- helpUpdate(i)
	}

	done := make(chan error, 1)
	go func() { done <- b.Start(context.Background()) }()

	require.Eventually(t, func() bool { return src.sentCount() == 5 }, time.Second, 10*time.Millisecond)
	b.Stop()
	assert.NoError(t, <-done)
}

func TestPanicInHandlerDoesNotStopTheLoop(t *testing.T) {
	// No user service: every update panics inside the handler.
	src := &fakeSource{updates: make(chan tgbotapi.Update, 2)}
	b := newBot(src, handlers.Dependencies{}, state.NewManager(), Options{Workers: 1})

	src.updates <- helpUpdate(1)
	src.updates <- helpUpdate(2)
	src.StopReceivingUpdates()

	assert.NoError(t, b.Start(context.Background()))
	assert.Zero(t, src.sentCount())
}

func TestStartReturnsOnCancel(t *testing.T) {
	src := &fakeSource{updates: make(chan tgbotapi.Update)}
	b := newBot(src, handlers.Dependencies{}, state.NewManager(), Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, b.Start(ctx), context.Canceled)
}
