// Package logging provides structured logging functionality.
package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    false,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "finboard", "logs", "finboard.log"),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	// Console writer
	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
		writers = append(writers, consoleWriter)
	}

	// File writer with rotation
	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = io.Discard
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ContextKey is the type for context keys.
type ContextKey string

// LoggerKey is the context key for the logger.
const LoggerKey ContextKey = "logger"

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context.
func FromContext(ctx context.Context) zerolog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
		return logger
	}
	return zerolog.Nop()
}

// WithSymbol adds a symbol to the logger context.
func WithSymbol(logger zerolog.Logger, symbol string) zerolog.Logger {
	return logger.With().Str("symbol", symbol).Logger()
}

// LogTrade logs a trade event.
func LogTrade(logger zerolog.Logger, symbol, side string, qty int, price float64) {
	logger.Info().
		Str("event", "trade").
		Str("symbol", symbol).
		Str("side", side).
		Int("quantity", qty).
		Float64("price", price).
		Msg("Trade executed")
}

// LogAlert logs an alert trigger.
func LogAlert(logger zerolog.Logger, symbol, direction string, target float64) {
	logger.Info().
		Str("event", "alert").
		Str("symbol", symbol).
		Str("direction", direction).
		Float64("target", target).
		Msg("Alert triggered")
}

// LogAPICall logs a market data API call.
func LogAPICall(logger zerolog.Logger, endpoint string, duration time.Duration, err error) {
	event := logger.Debug().
		Str("event", "api_call").
		Str("endpoint", endpoint).
		Dur("duration", duration)

	if err != nil {
		event.Err(err).Msg("API call failed")
	} else {
		event.Msg("API call completed")
	}
}
