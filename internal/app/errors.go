package app

import (
	"errors"
	"strings"
)

var (
	// ErrQuit is returned by Run when the user quits.
	ErrQuit = errors.New("quit requested")

	ErrAlreadyRunning = errors.New("application already running")
	ErrNoBackend      = errors.New("no backend set")

	// ErrNoScripts is reported when the script tool is chosen but no
	// script directory is loaded or it holds no scripts.
	ErrNoScripts = errors.New("no scripts loaded")

	ErrNoCheckpoint = errors.New("no checkpoint")
)

// OperationError is a failed file operation on the catalog, the script
// directory or the log file.
type OperationError struct {
	Op   string // "reload", "watch", "open"
	Kind string // What Path names: "catalog", "scripts", "log file"
	Path string
	Err  error
}

// NewOperationError creates an OperationError.
func NewOperationError(op, kind, path string, err error) *OperationError {
	return &OperationError{Op: op, Kind: kind, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	parts := []string{e.Op}
	if e.Kind != "" {
		parts = append(parts, e.Kind)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	msg := strings.Join(parts, " ")
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitError is returned by New and Run when a component can't start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "starting " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
