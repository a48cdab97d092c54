package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/carnivore-helper/internal/bot"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/handlers"
	"github.com/vladimiradmaev/carnivore-helper/internal/bot/state"
	"github.com/vladimiradmaev/carnivore-helper/internal/config"
	"github.com/vladimiradmaev/carnivore-helper/internal/database"
	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	"github.com/vladimiradmaev/carnivore-helper/internal/domain"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
	"github.com/vladimiradmaev/carnivore-helper/internal/repository"
	"github.com/vladimiradmaev/carnivore-helper/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
		AddSource:  true,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	defer logger.Close()
	logger.Info("Starting Carnivore Helper Bot...", "storage", cfg.Storage, "timezone", cfg.Diet.Timezone.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, users, err := openStores(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", "error", err)
	}

	stateManager, closeState := openStateManager(cfg)
	defer closeState()

	// Initialize services
	aiService, err := services.NewAIService(ctx, services.AIServiceConfig{
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize AI service", "error", err)
	}
	defer aiService.Close()

	// Meals and advice share one per-user AI budget.
	limiter := services.NewRateLimiter(cfg.AI.RatePerMinute, cfg.AI.Burst)
	matcher := diet.NewMatcher(nil)
	analyticsSvc := services.NewAnalyticsService(events, users, cfg.Diet.Timezone)
	deps := handlers.Dependencies{
		UserService:  services.NewUserService(users),
		MealSvc:      services.NewMealService(aiService, events, matcher, limiter),
		TrackingSvc:  services.NewTrackingService(events, cfg.Diet.Timezone),
		AnalyticsSvc: analyticsSvc,
		AdvisorSvc:   services.NewAdvisorService(aiService, analyticsSvc, matcher, limiter),
	}
	logger.Info("Services initialized successfully")

	telegramBot, err := bot.NewBot(cfg.TelegramToken, deps, stateManager, bot.Options{
		Workers:  cfg.BotWorkers,
		Location: cfg.Diet.Timezone,
	})
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	go func() {
		<-ctx.Done()
		telegramBot.Stop()
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Bot stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot stopped")
}

func openStores(cfg *config.Config) (domain.EventStore, domain.UserStore, error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryEventStore(), repository.NewMemoryUserStore(cfg.Diet.DefaultLevel), nil
	}
	db, err := database.NewPostgresDB(cfg.DB, cfg.Diet.Timezone)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewEventRepository(db), repository.NewUserRepository(db, cfg.Diet.DefaultLevel), nil
}

// openStateManager prefers Redis and falls back to process memory.
func openStateManager(cfg *config.Config) (state.StateManager, func()) {
	if !cfg.Redis.Enabled() {
		return state.NewManager(), func() {}
	}
	rm, err := state.NewRedisManager(cfg.Redis.Addr())
	if err != nil {
		logger.Warn("Redis unavailable, keeping conversation state in memory", "addr", cfg.Redis.Addr(), "error", err)
		return state.NewManager(), func() {}
	}
	logger.Info("Conversation state stored in Redis", "addr", cfg.Redis.Addr())
	return rm, func() {
		if err := rm.Close(); err != nil {
			logger.Warn("Failed to close redis", "error", err)
		}
	}
}
