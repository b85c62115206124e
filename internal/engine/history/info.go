package history

import (
	"time"

	"github.com/google/uuid"
)

// OperationInfo provides read-only info about a history entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	ID          uuid.UUID // Unique per recorded change
	Description string    // Human-readable description
	Timestamp   time.Time // When the change was recorded
}

// Option configures a History.
type Option func(*options)

type options struct {
	maxEntries int
	now        func() time.Time
}

// WithMaxEntries caps the number of undo entries.
// Zero or a negative value means unbounded.
func WithMaxEntries(max int) Option {
	return func(o *options) {
		if max < 0 {
			max = 0
		}
		o.maxEntries = max
	}
}

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
