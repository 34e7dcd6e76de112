package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"TOPDOWN_ENV", "TOPDOWN_LOG_LEVEL", "TOPDOWN_LOG_FILE", "TOPDOWN_SOUND", "TOPDOWN_CONTENT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Empty(t, cfg.LogFile)
	assert.False(t, cfg.Sound)
	assert.Equal(t, "content", cfg.ContentDir)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TOPDOWN_ENV", "production")
	t.Setenv("TOPDOWN_LOG_LEVEL", "WARNING")
	t.Setenv("TOPDOWN_LOG_FILE", "/tmp/topdown.log")
	t.Setenv("TOPDOWN_SOUND", "on")
	t.Setenv("TOPDOWN_CONTENT", "games/fitoeda")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "/tmp/topdown.log", cfg.LogFile)
	assert.True(t, cfg.Sound)
	assert.Equal(t, "games/fitoeda", cfg.ContentDir)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}
