package engine

import (
	"log/slog"
	"time"
)

// Default configuration values.
const (
	DefaultRows           = 10
	DefaultCols           = 10
	DefaultMaxUndoEntries = 0 // unbounded
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithDimensions sets the size of the initial grid.
// Negative values are treated as zero.
func WithDimensions(rows, cols int) Option {
	return func(e *Engine) {
		e.rows = max(rows, 0)
		e.cols = max(cols, 0)
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
// Zero means unbounded.
func WithMaxUndoEntries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.maxUndoEntries = n
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}
