package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hrtrack/hrtrack-api/internal/config"
	"github.com/hrtrack/hrtrack-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefault puts the original slog default back after a test that calls Setup.
func restoreDefault(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.name)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	restoreDefault(t)

	l, err := logger.Setup(config.ServerConfig{LogLevel: "warn"})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))
}

func TestNewWritesJSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	l, err := logger.New(logger.LoggerConfig{Level: "debug", Output: &buf})
	require.NoError(t, err)

	l.Debug("simulation computed", slog.Int("points", 337))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "simulation computed", entry["msg"])
	assert.Equal(t, float64(337), entry["points"])
}

func TestNewInvalidLevelWarns(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	l, err := logger.New(logger.LoggerConfig{Level: "loud", Output: &buf, Text: true})
	require.NoError(t, err)
	require.NotNil(t, l)

	out := buf.String()
	assert.True(t, strings.Contains(out, "invalid log level configured"))
	assert.True(t, strings.Contains(out, "configured_level=loud"))
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	scoped := slog.New(slog.NewJSONHandler(&buf, nil))
	fallback := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	ctx := logger.WithLogger(context.Background(), scoped)
	assert.Same(t, scoped, logger.FromContext(ctx))
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))

	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(context.Background(), nil))
}
