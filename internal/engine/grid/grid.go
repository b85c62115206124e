package grid

import (
	"iter"
	"strings"

	"github.com/dshills/tilestorm/internal/engine/seq"
)

// Pos is a cell coordinate.
type Pos struct {
	Row int
	Col int
}

// Grid is an immutable 2D container of cells.
// The zero value is a 0x0 grid. Growing it gives comparable cell types
// == as their equality.
type Grid[T any] struct {
	rows  int
	cols  int
	cells seq.Seq[seq.Seq[T]]
	eq    seq.EqualFunc[T]
}

// sameRow compares rows by identity, so an unchanged row makes the
// row-of-rows Set a no-op.
func sameRow[T any](a, b seq.Seq[T]) bool {
	return a.Same(b)
}

// New creates a rows x cols grid of zero values compared with ==.
func New[T comparable](rows, cols int) Grid[T] {
	return NewFunc(rows, cols, seq.Comparable[T]())
}

// NewFunc creates a rows x cols grid of zero values compared with eq.
// Negative dimensions are treated as zero.
func NewFunc[T any](rows, cols int, eq seq.EqualFunc[T]) Grid[T] {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}

	rowList := make([]seq.Seq[T], rows)
	for i := range rowList {
		rowList[i] = seq.WithLengthFunc(cols, eq)
	}

	return Grid[T]{
		rows:  rows,
		cols:  cols,
		cells: seq.NewFunc[seq.Seq[T]](sameRow[T], rowList...),
		eq:    eq,
	}
}

// Rows returns the number of rows.
func (g Grid[T]) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g Grid[T]) Cols() int {
	return g.cols
}

// InBounds reports whether (row, col) addresses a cell.
func (g Grid[T]) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Get returns the cell at (row, col).
// The second result is false if the coordinate is out of bounds.
func (g Grid[T]) Get(row, col int) (T, bool) {
	r, ok := g.cells.Get(row)
	if !ok {
		var zero T
		return zero, false
	}
	return r.Get(col)
}

// At is Get with a Pos.
func (g Grid[T]) At(p Pos) (T, bool) {
	return g.Get(p.Row, p.Col)
}

// Row returns the row sequence at index i.
func (g Grid[T]) Row(i int) (seq.Seq[T], bool) {
	return g.cells.Get(i)
}

// Set returns a grid with the cell at (row, col) replaced by v.
// If the cell already equals v the receiver is returned, so the result
// is Same as g. The second result is false if the coordinate is out of
// bounds.
func (g Grid[T]) Set(row, col int, v T) (Grid[T], bool) {
	r, ok := g.cells.Get(row)
	if !ok {
		return g, false
	}
	newRow, ok := r.Set(col, v)
	if !ok {
		return g, false
	}
	cells, ok := g.cells.Set(row, newRow)
	if !ok {
		return g, false
	}
	if cells.Same(g.cells) {
		return g, true
	}

	next := g
	next.cells = cells
	return next, true
}

// PushRowFront returns a grid with an empty row inserted at the top.
func (g Grid[T]) PushRowFront() Grid[T] {
	next := g.withCells()
	next.cells = next.cells.PushFront(seq.WithLengthFunc(next.cols, next.eq))
	next.rows++
	return next
}

// PushRowBack returns a grid with an empty row appended at the bottom.
func (g Grid[T]) PushRowBack() Grid[T] {
	next := g.withCells()
	next.cells = next.cells.PushBack(seq.WithLengthFunc(next.cols, next.eq))
	next.rows++
	return next
}

// PushColFront returns a grid with an empty column inserted on the left.
func (g Grid[T]) PushColFront() Grid[T] {
	var zero T
	next := g.withCells()
	next.cells = next.cells.Map(func(_ int, r seq.Seq[T]) seq.Seq[T] {
		return r.PushFront(zero)
	})
	next.cols++
	return next
}

// PushColBack returns a grid with an empty column appended on the right.
func (g Grid[T]) PushColBack() Grid[T] {
	var zero T
	next := g.withCells()
	next.cells = next.cells.Map(func(_ int, r seq.Seq[T]) seq.Seq[T] {
		return r.PushBack(zero)
	})
	next.cols++
	return next
}

// withCells returns a copy of g whose row-of-rows carries row-identity
// equality and whose cells have an element equality. The zero Grid lacks
// both.
func (g Grid[T]) withCells() Grid[T] {
	if g.eq == nil {
		g.eq = seq.Default[T]()
	}
	if g.cells.Len() == 0 {
		g.cells = seq.NewFunc[seq.Seq[T]](sameRow[T])
	}
	return g
}

// All returns a row-major iterator over every cell.
// Iteration never mutates the grid and may be restarted.
func (g Grid[T]) All() iter.Seq2[Pos, T] {
	return func(yield func(Pos, T) bool) {
		for row, r := range g.cells.All() {
			for col, v := range r.All() {
				if !yield(Pos{Row: row, Col: col}, v) {
					return
				}
			}
		}
	}
}

// Neighbors returns the in-bounds cells adjacent to p along the axes,
// in the order up, down, left, right.
func (g Grid[T]) Neighbors(p Pos) []Pos {
	out := make([]Pos, 0, 4)
	for _, n := range []Pos{
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row + 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
	} {
		if g.InBounds(n.Row, n.Col) {
			out = append(out, n)
		}
	}
	return out
}

// Equal reports whether two cell values are equal under the grid's
// element equality. Without an equality every pair is unequal.
func (g Grid[T]) Equal(a, b T) bool {
	if g.eq == nil {
		return false
	}
	return g.eq(a, b)
}

// Same reports whether g and other share the same row-of-rows storage.
// This is an O(1) identity check and says nothing about two grids built
// separately with equal content.
func (g Grid[T]) Same(other Grid[T]) bool {
	return g.cells.Same(other.cells)
}

// Format renders the grid one line per row using glyph for each cell.
func (g Grid[T]) Format(glyph func(T) rune) string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for _, r := range g.cells.All() {
		for v := range r.Values() {
			sb.WriteRune(glyph(v))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
