package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/heartmarshall/dualtrack-backend/internal/config"
)

// NewLogger builds the process logger from cfg.Log, writes to stderr and
// installs it as the slog default.
//
// Format "json" produces one JSON object per record; anything else produces
// text with source locations. Level is debug, info, warn or error
// (case-insensitive) and defaults to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	json := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !json,
	}

	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
