// Package config reads runtime settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Environment string
	LogLevel    slog.Level
	LogFile     string // empty discards logs in TUI mode
	Sound       bool
	ContentDir  string
}

func Load() *Config {
	return &Config{
		Environment: getEnv("TOPDOWN_ENV", "development"),
		LogLevel:    parseLogLevel(getEnv("TOPDOWN_LOG_LEVEL", "info")),
		LogFile:     getEnv("TOPDOWN_LOG_FILE", ""),
		Sound:       parseBool(getEnv("TOPDOWN_SOUND", "off")),
		ContentDir:  getEnv("TOPDOWN_CONTENT", "content"),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
