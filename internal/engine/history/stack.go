package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/tilestorm/internal/engine/grid"
)

// entry is a snapshot on one of the stacks together with the change that
// leads away from it.
type entry[T any] struct {
	grid grid.Grid[T]
	info OperationInfo
}

// History manages undo/redo state for a grid.
//
// History is not safe for concurrent use; it belongs to one editing
// session and is driven from a single goroutine.
type History[T any] struct {
	current grid.Grid[T]

	undoStack []entry[T]
	redoStack []entry[T]

	open *openGroup[T] // nil unless a group is in progress

	opts options
}

// New creates a history whose current grid is initial and whose stacks
// are empty.
func New[T any](initial grid.Grid[T], opts ...Option) *History[T] {
	h := &History[T]{current: initial}
	for _, opt := range opts {
		opt(&h.opts)
	}
	if h.opts.now == nil {
		h.opts.now = time.Now
	}
	return h
}

// Current returns the current grid.
func (h *History[T]) Current() grid.Grid[T] {
	return h.current
}

// Mutate records g as the new current grid.
// It returns false, changing nothing, if g is Same as the current grid.
func (h *History[T]) Mutate(g grid.Grid[T]) bool {
	return h.Apply("", g)
}

// Apply is Mutate with a description for the recorded entry.
// While grouping, the current grid is replaced without pushing an entry.
func (h *History[T]) Apply(description string, g grid.Grid[T]) bool {
	if g.Same(h.current) {
		return false
	}

	if h.open != nil {
		h.current = g
		return true
	}

	h.push(h.current, description)
	h.current = g
	return true
}

// push adds prev to the undo stack and clears redo.
func (h *History[T]) push(prev grid.Grid[T], description string) {
	h.undoStack = append(h.undoStack, entry[T]{
		grid: prev,
		info: OperationInfo{
			ID:          uuid.New(),
			Description: description,
			Timestamp:   h.opts.now(),
		},
	})

	// Clear redo stack
	h.redoStack = nil

	h.trim()
}

// trim enforces the max entries limit by dropping the oldest snapshots.
func (h *History[T]) trim() {
	max := h.opts.maxEntries
	if max <= 0 || len(h.undoStack) <= max {
		return
	}
	excess := len(h.undoStack) - max
	clear(h.undoStack[:excess])
	h.undoStack = h.undoStack[excess:]
}

// Undo restores the previous snapshot.
// It returns false if there is nothing to undo. An open group is ended
// first so the stroke in progress is what gets undone.
func (h *History[T]) Undo() bool {
	if h.open != nil {
		h.EndGroup()
	}
	if len(h.undoStack) == 0 {
		return false
	}

	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, entry[T]{grid: h.current, info: e.info})
	h.current = e.grid
	return true
}

// Redo re-applies the most recently undone snapshot.
// It returns false if there is nothing to redo.
func (h *History[T]) Redo() bool {
	if h.open != nil {
		h.EndGroup()
	}
	if len(h.redoStack) == 0 {
		return false
	}

	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, entry[T]{grid: h.current, info: e.info})
	h.current = e.grid
	h.trim()
	return true
}

// CanUndo returns true if undo is available.
func (h *History[T]) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History[T]) CanRedo() bool {
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History[T]) UndoCount() int {
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History[T]) RedoCount() int {
	return len(h.redoStack)
}

// Reset adopts g as the current grid and drops all history.
func (h *History[T]) Reset(g grid.Grid[T]) {
	h.current = g
	h.undoStack = nil
	h.redoStack = nil
	h.open = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History[T]) UndoInfo() []OperationInfo {
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo entries, oldest first.
func (h *History[T]) RedoInfo() []OperationInfo {
	return infos(h.redoStack)
}

func infos[T any](stack []entry[T]) []OperationInfo {
	result := make([]OperationInfo, len(stack))
	for i, e := range stack {
		result[i] = e.info
	}
	return result
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History[T]) PeekUndo() (OperationInfo, bool) {
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info, true
}

// PeekRedo returns info about the next redo entry without removing it.
func (h *History[T]) PeekRedo() (OperationInfo, bool) {
	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info, true
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History[T]) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	h.opts.maxEntries = max
	h.trim()
}

// MaxEntries returns the maximum number of undo entries, 0 if unbounded.
func (h *History[T]) MaxEntries() int {
	return h.opts.maxEntries
}
