package app

import (
	"errors"
	"io"
	"log/slog"
)

// Config holds everything an App instance needs to run.
type Config struct {
	GridPath string // .hcl file or directory

	LogFormat string // "text" or "json"
	LogLevel  string // "debug", "info", "warn", "error"

	// MaxSteps overrides the grid's run bound when positive.
	MaxSteps int
	// DotOnly renders the graph as DOT text instead of running it.
	DotOnly bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GridPath == "" {
		return nil, errors.New("GridPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the App's isolated logger from the validated config.
// The CLI rejects unknown levels and formats up front, so unmatched values
// here only mean the config was built programmatically; they fall back to
// info-level text.
func (c *Config) newLogger(w io.Writer) *slog.Logger {
	level, ok := logLevels[c.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
