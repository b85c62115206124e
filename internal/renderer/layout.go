package renderer

import (
	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/renderer/core"
)

// Layout maps grid positions to screen rectangles.
type Layout struct {
	Top, Left  int
	Rows, Cols int
	CellWidth  int
}

// NewLayout returns the layout of a rows × cols canvas at the screen
// origin with the given cell width. Widths below 1 are treated as 1.
func NewLayout(rows, cols, cellWidth int) Layout {
	return Layout{Rows: rows, Cols: cols, CellWidth: max(cellWidth, 1)}
}

// CellHeight returns how many screen lines one cell spans.
// Terminal glyphs are about twice as tall as wide, so a cell is half as
// many lines as it is columns.
func (l Layout) CellHeight() int {
	return max((l.CellWidth+1)/2, 1)
}

// Bounds returns the screen area covered by the canvas.
func (l Layout) Bounds() core.ScreenRect {
	return core.RectFromSize(l.Top, l.Left, l.Rows*l.CellHeight(), l.Cols*l.CellWidth)
}

// Rect returns the screen area of cell (row, col).
func (l Layout) Rect(row, col int) core.ScreenRect {
	h := l.CellHeight()
	return core.RectFromSize(l.Top+row*h, l.Left+col*l.CellWidth, h, l.CellWidth)
}

// CellAt maps a screen position to a grid position.
// The third result is false when (x, y) is outside the canvas.
func (l Layout) CellAt(x, y int) (row, col int, ok bool) {
	if !l.Bounds().Contains(x, y) {
		return 0, 0, false
	}
	return (y - l.Top) / l.CellHeight(), (x - l.Left) / l.CellWidth, true
}

// PosAt is CellAt returning an engine position.
func (l Layout) PosAt(x, y int) (engine.Pos, bool) {
	row, col, ok := l.CellAt(x, y)
	return engine.Pos{Row: row, Col: col}, ok
}
