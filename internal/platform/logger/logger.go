package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hrtrack/hrtrack-api/internal/config"
)

// LoggerConfig controls how Setup builds the application logger.
type LoggerConfig struct {
	Level     string
	Output    io.Writer
	AddSource bool
	// Text switches from JSON to the human-readable text handler, used by the CLI.
	Text bool
}

type contextKey struct{}

// ParseLevel maps a configured level name onto a slog level. The boolean is
// false for unknown names, in which case info is returned.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Setup initializes the application's structured logger from the server
// configuration and installs it as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	return New(LoggerConfig{Level: cfg.LogLevel})
}

// New builds a logger from cfg and installs it as the slog default.
// Output defaults to stdout.
func New(cfg LoggerConfig) (*slog.Logger, error) {
	level, ok := ParseLevel(cfg.Level)

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Text {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if !ok {
		logger.Warn("invalid log level configured, using default level",
			slog.String("configured_level", cfg.Level),
			slog.String("default_level", "info"))
	}

	return logger, nil
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the slog default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback when ctx
// carries none.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
