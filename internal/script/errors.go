package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrInstructionLimit is returned when the instruction budget is exceeded.
	ErrInstructionLimit = errors.New("lua instruction limit exceeded")

	// ErrNoApply is returned when a script does not define apply.
	ErrNoApply = errors.New("script does not define apply")

	// ErrScriptNotFound is returned when no script has the requested name.
	ErrScriptNotFound = errors.New("script not found")
)

// ScriptError wraps a failure of a named script.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
