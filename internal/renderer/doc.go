// Package renderer draws the tile canvas onto a terminal backend.
//
// The renderer is stateless apart from its backend and theme: each call to
// Render paints a complete Frame, and the backend (tcell) diffs against what
// is already on screen.
//
// Layout:
//
//	┌──────────────────────────────┐
//	│ canvas: rows × cols cells,   │
//	│ each CellWidth columns wide  │
//	│ and CellHeight lines tall    │
//	│                              │
//	├──────────────────────────────┤
//	│ status line (last row)       │
//	└──────────────────────────────┘
//
// Usage:
//
//	r := renderer.New(term, renderer.DefaultTheme())
//	r.Render(renderer.Frame{Grid: g, Rooms: rooms, CellWidth: 2})
//	row, col, ok := r.Layout(g, 2).CellAt(mouseX, mouseY)
package renderer
