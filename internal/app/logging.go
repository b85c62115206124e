package app

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLogLevel reads a level name as written in the config file
// ("debug", "info", "warn" or "warning", "error", any case). Anything
// else is slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoggerConfig configures NewLogger.
type LoggerConfig struct {
	Level     slog.Level
	Output    io.Writer // Nil discards every record
	Component string    // Attached to every record when set
}

// DefaultLoggerConfig logs nothing: the terminal owns stdout and stderr
// while the editor runs, so output needs an explicit log file.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Level: slog.LevelInfo}
}

// NewLogger creates a text logger.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	handler := slog.DiscardHandler
	if cfg.Output != nil {
		handler = slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: cfg.Level})
	}
	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = WithComponent(logger, cfg.Component)
	}
	return logger
}

// WithComponent tags logger's records with the subsystem that wrote them.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// OpenLogFile opens path for appending. An empty path yields a writer
// that discards everything.
func OpenLogFile(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, NewOperationError("open", "log file", path, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
