package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var globalLogger = slog.Default()

// LogLevel represents different log levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config holds logger configuration
type Config struct {
	Level      LogLevel
	OutputPath string // file path, "stdout" or empty for stdout
	Format     string // "json" or "text"
	AddSource  bool
	// Writer overrides OutputPath when set.
	Writer io.Writer
}

type ctxKey struct{}

// Init initializes the structured logger
func Init() error {
	return InitWithConfig(Config{
		Level:      LevelInfo,
		OutputPath: "logs/app.log",
		Format:     "json",
		AddSource:  true,
	})
}

// InitWithConfig initializes logger with custom config
func InitWithConfig(config Config) error {
	output := config.Writer
	if output == nil {
		if config.OutputPath == "" || config.OutputPath == "stdout" {
			output = os.Stdout
		} else {
			if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(config.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				return err
			}
			output = f
		}
	}

	opts := &slog.HandlerOptions{
		Level:     config.Level.slogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// Close closes the logger (for compatibility)
func Close() error {
	return nil
}

// WithUser returns a logger tagged with the telegram user id.
func WithUser(telegramID int64) *slog.Logger {
	return globalLogger.With("user_id", telegramID)
}

// ContextWithUser stores the telegram user id so WithContext can tag logs.
func ContextWithUser(ctx context.Context, telegramID int64) context.Context {
	return context.WithValue(ctx, ctxKey{}, telegramID)
}

// WithContext returns a logger tagged with the user stored in ctx, if any.
func WithContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if id, ok := ctx.Value(ctxKey{}).(int64); ok {
			return WithUser(id)
		}
	}
	return globalLogger
}

// WithFields returns a logger with additional fields
func WithFields(fields ...any) *slog.Logger {
	return globalLogger.With(fields...)
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	globalLogger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	globalLogger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	globalLogger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	globalLogger.Error(msg, args...)
}

// Infof logs an info message with formatting
func Infof(format string, args ...any) {
	globalLogger.Info(fmt.Sprintf(format, args...))
}

// Warningf logs a warning message with formatting
func Warningf(format string, args ...any) {
	globalLogger.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs an error message with formatting
func Errorf(format string, args ...any) {
	globalLogger.Error(fmt.Sprintf(format, args...))
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	globalLogger.Error(msg, args...)
	os.Exit(1)
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	return globalLogger
}
