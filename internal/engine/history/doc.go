// Package history provides undo/redo over persistent grid snapshots.
//
// Because grids are immutable and share unchanged rows, history stores
// whole grids rather than commands or deltas. Undoing is adopting the
// previous snapshot; nothing has to be replayed or inverted.
//
// # History Stack
//
// The History type holds the current grid plus two stacks:
//
//	h := history.New(grid.New[int](16, 16))
//
//	// Record an edit. A grid that is Same as the current one is ignored.
//	next, _ := h.Current().Set(0, 0, 1)
//	h.Mutate(next)
//
//	h.Undo() // current is the empty grid again
//	h.Redo() // current is next again
//
// Any recorded change clears the redo stack. Undo and Redo with nothing to
// restore are silent no-ops and report false.
//
// # Grouping
//
// A pointer drag produces many grids; grouping records them as one entry:
//
//	h.BeginGroup("Brush")
//	// ... Mutate per drag sample ...
//	h.EndGroup()
//
// The entry is pushed only if the grid at EndGroup differs from the grid at
// BeginGroup.
//
// # Limits
//
// History is unbounded by default. WithMaxEntries caps the undo stack and
// drops the oldest snapshots first.
package history
