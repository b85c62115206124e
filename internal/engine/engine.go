package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/tilestorm/internal/engine/fill"
	"github.com/dshills/tilestorm/internal/engine/grid"
	"github.com/dshills/tilestorm/internal/engine/history"
	"github.com/dshills/tilestorm/internal/tile"
)

// Re-export commonly used types for convenience.
type (
	// Grid is the editor's tile grid.
	Grid = grid.Grid[tile.Cell]

	// Pos is a (row, col) position in the grid.
	Pos = grid.Pos

	// OperationInfo describes a history entry.
	OperationInfo = history.OperationInfo

	// Checkpoint marks a point in history that can be returned to.
	Checkpoint = history.Checkpoint
)

// Edge selects the side of the grid Grow extends.
type Edge uint8

// Grid edges.
const (
	EdgeTop Edge = iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	case EdgeRight:
		return "right"
	default:
		return "unknown"
	}
}

// History descriptions recorded by the engine.
const (
	OpPaint = "paint"
	OpErase = "erase"
	OpFill  = "fill"
	OpClear = "clear"
	OpGrow  = "grow"
)

// Engine is the editing facade over a tile grid and its history.
//
// The application drives an Engine from its event loop. Methods take an
// internal lock, so reading Grid or the counts from another goroutine is
// safe, but interleaved edits from several goroutines have no defined order.
type Engine struct {
	mu sync.RWMutex

	history *history.History[tile.Cell]
	logger  *slog.Logger

	// Configuration
	rows           int
	cols           int
	maxUndoEntries int
	now            func() time.Time
}

// New creates a new Engine with an empty grid.
func New(opts ...Option) *Engine {
	e := &Engine{
		rows:           DefaultRows,
		cols:           DefaultCols,
		maxUndoEntries: DefaultMaxUndoEntries,
		logger:         slog.New(slog.DiscardHandler),
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.history = history.New(
		grid.New[tile.Cell](e.rows, e.cols),
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithClock(e.now),
	)
	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Grid returns the current grid.
func (e *Engine) Grid() Grid {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Current()
}

// Rows returns the number of rows in the current grid.
func (e *Engine) Rows() int {
	return e.Grid().Rows()
}

// Cols returns the number of columns in the current grid.
func (e *Engine) Cols() int {
	return e.Grid().Cols()
}

// Cell returns the cell at (row, col).
func (e *Engine) Cell(row, col int) (tile.Cell, bool) {
	return e.Grid().Get(row, col)
}

// ============================================================================
// Edit Operations
// ============================================================================

// Paint sets the cell at (row, col).
// It returns false if the position is out of bounds or the cell already
// holds c; no history entry is recorded in that case.
func (e *Engine) Paint(row, col int, c tile.Cell) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.history.Current().Set(row, col, c)
	if !ok {
		return false
	}
	return e.applyLocked(OpPaint, next)
}

// Erase empties the cell at (row, col).
func (e *Engine) Erase(row, col int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.history.Current().Set(row, col, tile.Empty)
	if !ok {
		return false
	}
	return e.applyLocked(OpErase, next)
}

// Fill flood fills the region containing (row, col) with c.
// It returns false if nothing changed.
func (e *Engine) Fill(row, col int, c tile.Cell) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, n := fill.RegionCount(e.history.Current(), Pos{Row: row, Col: col}, c)
	if n == 0 {
		return false
	}
	e.logger.Debug("region filled", "row", row, "col", col, "cells", n)
	return e.applyLocked(OpFill, next)
}

// Clear empties every cell, keeping the grid's dimensions.
// It records a history entry only if some cell was not empty.
func (e *Engine) Clear() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.history.Current()
	dirty := false
	for _, c := range cur.All() {
		if !c.IsEmpty() {
			dirty = true
			break
		}
	}
	if !dirty {
		return false
	}
	return e.applyLocked(OpClear, grid.New[tile.Cell](cur.Rows(), cur.Cols()))
}

// Grow adds an empty row or column on the given edge.
func (e *Engine) Grow(edge Edge) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.history.Current()
	var next Grid
	switch edge {
	case EdgeTop:
		next = cur.PushRowFront()
	case EdgeBottom:
		next = cur.PushRowBack()
	case EdgeLeft:
		next = cur.PushColFront()
	case EdgeRight:
		next = cur.PushColBack()
	default:
		return false
	}

	e.logger.Debug("grid grown", "edge", edge.String(), "rows", next.Rows(), "cols", next.Cols())
	return e.applyLocked(OpGrow+" "+edge.String(), next)
}

// Apply records g, produced by an external tool, as the new grid.
// It returns false if g is Same as the current grid.
func (e *Engine) Apply(description string, g Grid) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(description, g)
}

func (e *Engine) applyLocked(description string, g Grid) bool {
	if !e.history.Apply(description, g) {
		return false
	}
	if !e.history.IsGrouping() {
		e.logger.Debug("history entry recorded", "op", description, "undo", e.history.UndoCount())
	}
	return true
}

// Reset replaces the grid and clears all history.
func (e *Engine) Reset(g Grid) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.Reset(g)
}

// ============================================================================
// Strokes
// ============================================================================

// BeginStroke starts collecting edits into a single history entry.
// Nested calls are ignored.
func (e *Engine) BeginStroke(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.BeginGroup(name)
}

// EndStroke finishes the current stroke.
// It returns true if the stroke changed the grid and was recorded.
func (e *Engine) EndStroke() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	recorded := e.history.EndGroup()
	if recorded {
		info, _ := e.history.PeekUndo()
		e.logger.Debug("stroke recorded", "op", info.Description, "undo", e.history.UndoCount())
	}
	return recorded
}

// CancelStroke abandons the current stroke, restoring the grid it started with.
func (e *Engine) CancelStroke() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.CancelGroup()
}

// InStroke returns true while a stroke is open.
func (e *Engine) InStroke() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.IsGrouping()
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo restores the grid before the last recorded change.
// It returns false if there is nothing to undo.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Undo()
}

// Redo reapplies the last undone change.
// It returns false if there is nothing to redo.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Redo()
}

// UndoE is Undo returning ErrNothingToUndo instead of false.
func (e *Engine) UndoE() error {
	if !e.Undo() {
		return ErrNothingToUndo
	}
	return nil
}

// RedoE is Redo returning ErrNothingToRedo instead of false.
func (e *Engine) RedoE() error {
	if !e.Redo() {
		return ErrNothingToRedo
	}
	return nil
}

// CanUndo returns true if there are changes to undo.
func (e *Engine) CanUndo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanUndo()
}

// CanRedo returns true if there are changes to redo.
func (e *Engine) CanRedo() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Engine) UndoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Engine) RedoCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.RedoCount()
}

// PeekUndo describes the change Undo would revert.
func (e *Engine) PeekUndo() (OperationInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.PeekUndo()
}

// PeekRedo describes the change Redo would reapply.
func (e *Engine) PeekRedo() (OperationInfo, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.PeekRedo()
}

// UndoHistory returns info for all undo entries, oldest first.
func (e *Engine) UndoHistory() []OperationInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.UndoInfo()
}

// ============================================================================
// Checkpoints
// ============================================================================

// CreateCheckpoint marks the current history position.
func (e *Engine) CreateCheckpoint() Checkpoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.CreateCheckpoint()
}

// UndoToCheckpoint undoes every change recorded since cp.
func (e *Engine) UndoToCheckpoint(cp Checkpoint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.UndoToCheckpoint(cp)
}

// RedoToCheckpoint replays undone changes until the history is back at
// cp or the redo stack runs out.
func (e *Engine) RedoToCheckpoint(cp Checkpoint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history.RedoToCheckpoint(cp)
}
