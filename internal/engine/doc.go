// Package engine provides the editing core for Tilestorm.
//
// The engine package is the facade the frontend talks to. It owns the
// undo/redo history of a persistent tile grid and turns editor actions
// (paint, erase, flood fill, clear, grow) into new grid values.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - seq: immutable sequences with copy-on-write updates
//   - grid: a 2D grid of rows built on seq, sharing untouched rows
//   - history: snapshot-based undo/redo with grouping and checkpoints
//   - fill: 4-connected flood fill over grids
//
// # Thread Safety
//
// All Engine operations are thread-safe. Grid values returned by the
// engine are immutable and may be read from any goroutine.
//
// # Basic Usage
//
//	e := engine.New(engine.WithDimensions(16, 16))
//
//	e.Paint(2, 3, tile.RoomCell(0))
//	e.Fill(0, 0, tile.RoomCell(1))
//
//	e.Undo() // Removes the fill
//	e.Redo() // Restores it
//
// # Strokes
//
// A drag with the brush is a series of paints recorded as one entry:
//
//	e.BeginStroke("brush")
//	e.Paint(0, 0, c)
//	e.Paint(0, 1, c)
//	e.EndStroke()
//
//	e.Undo() // Undoes the whole stroke
//
// A stroke that ends with the same grid it started with records nothing.
package engine
