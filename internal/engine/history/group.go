package history

import "github.com/dshills/tilestorm/internal/engine/grid"

type openGroup[T any] struct {
	name  string
	start grid.Grid[T]
}

// BeginGroup starts collecting changes into one undo entry named name.
// Nested calls are ignored; the outermost group wins.
func (h *History[T]) BeginGroup(name string) {
	if h.open == nil {
		h.open = &openGroup[T]{name: name, start: h.current}
	}
}

// EndGroup closes the open group. An entry is recorded, and true
// returned, only if the current grid is no longer Same as the grid the
// group started from.
func (h *History[T]) EndGroup() bool {
	g := h.open
	if g == nil {
		return false
	}
	h.open = nil
	if h.current.Same(g.start) {
		return false
	}
	h.push(g.start, g.name)
	return true
}

// CancelGroup closes the open group and restores its starting grid.
func (h *History[T]) CancelGroup() {
	if g := h.open; g != nil {
		h.current = g.start
		h.open = nil
	}
}

// IsGrouping reports whether a group is open.
func (h *History[T]) IsGrouping() bool { return h.open != nil }

// Checkpoint is an undo depth to return to.
type Checkpoint struct {
	depth int
}

// CreateCheckpoint records the current undo depth.
func (h *History[T]) CreateCheckpoint() Checkpoint {
	return Checkpoint{depth: len(h.undoStack)}
}

// UndoToCheckpoint undoes every entry recorded after cp.
func (h *History[T]) UndoToCheckpoint(cp Checkpoint) {
	for len(h.undoStack) > cp.depth && h.Undo() {
	}
}

// RedoToCheckpoint redoes toward cp while redo entries remain.
func (h *History[T]) RedoToCheckpoint(cp Checkpoint) {
	for len(h.undoStack) < cp.depth && h.Redo() {
	}
}
