package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/vladimiradmaev/carnivore-helper/internal/diet"
	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
	"github.com/vladimiradmaev/carnivore-helper/internal/logger"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	Storage       string
	DB            DBConfig
	Redis         RedisConfig
	Diet          DietConfig
	AI            AIConfig
	BotWorkers    int
	Logger        LoggerConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DSN is the libpq connection string for gorm's postgres driver.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}

// RedisConfig is optional; an empty host selects the in-memory state store.
type RedisConfig struct {
	Host string
	Port string
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

type DietConfig struct {
	DefaultLevel diet.Level
	Timezone     *time.Location
}

// AIConfig throttles extraction calls per user.
type AIConfig struct {
	RatePerMinute float64
	Burst         int
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

// Load reads the environment and reports every invalid setting at once.
func Load() (*Config, error) {
	var problems []string

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		Storage:       strings.ToLower(getEnvOrDefault("STORAGE", StoragePostgres)),
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "carnivore_helper"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	if cfg.TelegramToken == "" {
		problems = append(problems, "TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.GeminiAPIKey == "" && cfg.OpenAIAPIKey == "" {
		problems = append(problems, "one of GEMINI_API_KEY or OPENAI_API_KEY is required")
	}
	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		problems = append(problems, fmt.Sprintf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, cfg.Storage))
	}
	if f := cfg.Logger.Format; f != "json" && f != "text" {
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be json or text, got %q", f))
	}

	level, err := diet.ParseLevel(getEnvOrDefault("DEFAULT_DIET_LEVEL", "strict"))
	if err != nil || (level != diet.Strict && level != diet.Relaxed) {
		problems = append(problems, "DEFAULT_DIET_LEVEL must be strict or relaxed")
	}
	cfg.Diet.DefaultLevel = level

	tz := getEnvOrDefault("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q: %v", tz, err))
		loc = time.UTC
	}
	cfg.Diet.Timezone = loc

	cfg.AI.RatePerMinute = positiveFloat("AI_RATE_PER_MINUTE", 6, &problems)
	cfg.AI.Burst = positiveInt("AI_RATE_BURST", 3, &problems)
	cfg.BotWorkers = positiveInt("BOT_WORKERS", 8, &problems)

	if len(problems) > 0 {
		return nil, apperrors.New(apperrors.ErrorTypeValidation, apperrors.CodeInvalidConfig, strings.Join(problems, "; ")).
			WithContext("problems", problems)
	}
	return cfg, nil
}

func positiveInt(key string, def int, problems *[]string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		*problems = append(*problems, fmt.Sprintf("%s must be a positive integer, got %q", key, raw))
		return def
	}
	return v
}

func positiveFloat(key string, def float64, problems *[]string) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		*problems = append(*problems, fmt.Sprintf("%s must be a positive number, got %q", key, raw))
		return def
	}
	return v
}

// MaskSecret keeps the first and last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
