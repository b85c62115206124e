// Package watcher reports changes to the tile catalog and script files.
//
// Files are watched through their parent directory so that editors that
// save by writing a temporary file and renaming it are still observed.
// Rapid changes to the same path are coalesced by DebouncedWatcher.
package watcher

import (
	"errors"
	"path/filepath"
	"time"
)

var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op is a set of file operations. Debouncing merges the operations of a
// burst into one Op.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

var opNames = map[Op]string{
	OpCreate: "CREATE",
	OpWrite:  "WRITE",
	OpRemove: "REMOVE",
	OpRename: "RENAME",
}

// String names a single operation; combined sets are "UNKNOWN".
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Has reports whether every operation in o is in op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is a change to a watched file.
type Event struct {
	Path      string // Absolute
	Op        Op
	Timestamp time.Time // Time of the latest change
}

// Watcher reports changes to files and directories.
//
// Watch fails with ErrAlreadyWatching and Unwatch with ErrNotWatching when
// the path's state is already as asked. Events and Errors are closed by
// Close.
type Watcher interface {
	Watch(path string) error
	Unwatch(path string) error
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// EventFilter keeps the events for which it returns true.
type EventFilter func(event Event) bool

// ExtFilter keeps events for files with the given extension.
func ExtFilter(ext string) EventFilter {
	return func(event Event) bool {
		return filepath.Ext(event.Path) == ext
	}
}

// Config holds FSNotifyWatcher settings.
type Config struct {
	BufferSize  int         // capacity of the Events and Errors channels
	EventFilter EventFilter // nil keeps every event
}

// DefaultConfig returns the settings used when no options are given.
func DefaultConfig() Config { return Config{BufferSize: 100} }

// WatcherOption configures NewFSNotifyWatcher.
type WatcherOption func(*Config)

// WithBufferSize sizes both output channels.
func WithBufferSize(size int) WatcherOption {
	return func(c *Config) { c.BufferSize = size }
}

// WithEventFilter drops events for which f returns false.
func WithEventFilter(f EventFilter) WatcherOption {
	return func(c *Config) { c.EventFilter = f }
}
