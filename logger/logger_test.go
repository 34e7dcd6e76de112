package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/topdown/config"
)

func TestSetup_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	l.Debug("hidden")
	l.Info("map loaded", "map", "town")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "map loaded", rec["msg"])
	assert.Equal(t, "town", rec["map"])
}

func TestSetup_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	l := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelDebug}, &buf)
	WithError(l, errors.New("boom")).Debug("load failed")
	assert.Contains(t, buf.String(), "msg=\"load failed\"")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestOutput(t *testing.T) {
	w, closeFn, err := Output(&config.Config{}, false)
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)
	assert.NoError(t, closeFn())

	w, _, err = Output(&config.Config{}, true)
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w)

	path := filepath.Join(t.TempDir(), "topdown.log")
	w, closeFn, err = Output(&config.Config{LogFile: path}, true)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	require.NoError(t, closeFn())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}
