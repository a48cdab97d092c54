package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vladimiradmaev/carnivore-helper/internal/config"
)

func main() {
	fmt.Println("🔍 Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env file not found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Configuration is valid!")
	fmt.Printf("📋 Details:\n")
	fmt.Printf("  - Telegram Token: %s\n", config.MaskSecret(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s\n", config.MaskSecret(cfg.GeminiAPIKey))
	fmt.Printf("  - Gemini Model: %s\n", cfg.GeminiModel)
	fmt.Printf("  - OpenAI API Key: %s\n", config.MaskSecret(cfg.OpenAIAPIKey))
	fmt.Printf("  - Storage: %s\n", cfg.Storage)
	if cfg.Storage == config.StoragePostgres {
		fmt.Printf("  - DB: %s@%s:%s/%s\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)
	}
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())
	} else {
		fmt.Printf("  - Redis: disabled (in-memory state)\n")
	}
	fmt.Printf("  - Default diet level: %s\n", cfg.Diet.DefaultLevel)
	fmt.Printf("  - Timezone: %s\n", cfg.Diet.Timezone)
	fmt.Printf("  - AI rate: %.1f/min, burst %d\n", cfg.AI.RatePerMinute, cfg.AI.Burst)
	fmt.Printf("  - Bot workers: %d\n", cfg.BotWorkers)
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}
