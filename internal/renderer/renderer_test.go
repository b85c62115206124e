package renderer

import (
	"testing"

	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/engine/grid"
	"github.com/dshills/tilestorm/internal/renderer/backend"
	"github.com/dshills/tilestorm/internal/renderer/core"
	"github.com/dshills/tilestorm/internal/tile"
)

func newBackend(t *testing.T, w, h int) *backend.NullBackend {
	t.Helper()
	b := backend.NewNullBackend(w, h)
	if err := b.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return b
}

func testFrame(t *testing.T) Frame {
	t.Helper()
	g := grid.New[tile.Cell](2, 3)
	g, _ = g.Set(0, 1, tile.RoomCell(0))
	g, _ = g.Set(1, 2, tile.RoomCell(7))
	return Frame{
		Grid:      g,
		Rooms:     tile.NewRooms(tile.Material{Name: "grass", Color: "#00ff00"}),
		CellWidth: 2,
		Status:    "undo 1",
	}
}

func TestLayout(t *testing.T) {
	l := NewLayout(3, 4, 2)

	if l.CellHeight() != 1 {
		t.Errorf("CellHeight() = %d, want 1", l.CellHeight())
	}
	if b := l.Bounds(); b.Width() != 8 || b.Height() != 3 {
		t.Errorf("Bounds() = %+v, want 8x3", b)
	}

	tests := []struct {
		x, y     int
		row, col int
		ok       bool
	}{
		{0, 0, 0, 0, true},
		{1, 0, 0, 0, true},
		{2, 0, 0, 1, true},
		{7, 2, 2, 3, true},
		{8, 0, 0, 0, false},
		{0, 3, 0, 0, false},
		{-1, 0, 0, 0, false},
	}
	for _, tt := range tests {
		row, col, ok := l.CellAt(tt.x, tt.y)
		if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
			t.Errorf("CellAt(%d, %d) = (%d, %d, %v), want (%d, %d, %v)", tt.x, tt.y, row, col, ok, tt.row, tt.col, tt.ok)
		}
	}
}

func TestLayoutZoom(t *testing.T) {
	l := NewLayout(2, 2, 4)
	if l.CellHeight() != 2 {
		t.Fatalf("CellHeight() = %d, want 2", l.CellHeight())
	}

	pos, ok := l.PosAt(5, 3)
	if !ok || pos != (engine.Pos{Row: 1, Col: 1}) {
		t.Errorf("PosAt(5, 3) = %v, %v", pos, ok)
	}
	if r := l.Rect(1, 0); r != core.RectFromSize(2, 0, 2, 4) {
		t.Errorf("Rect(1, 0) = %+v", r)
	}

	if w := NewLayout(1, 1, 0).CellWidth; w != 1 {
		t.Errorf("zero width clamped to %d, want 1", w)
	}
}

func TestRender(t *testing.T) {
	b := newBackend(t, 6, 3)
	r := New(b, DefaultTheme())

	r.Render(testFrame(t))

	if got := b.Row(0); got != "· G · " {
		t.Errorf("Row(0) = %q, want %q", got, "· G · ")
	}
	if got := b.Row(1); got != "· · ? " {
		t.Errorf("Row(1) = %q, want %q", got, "· · ? ")
	}
	if got := b.Row(2); got != " undo " {
		t.Errorf("status row = %q, want %q", got, " undo ")
	}

	painted := b.GetCell(2, 0)
	if painted.Style.Background != core.ColorFromRGB(0, 255, 0) {
		t.Errorf("painted background = %v, want #00ff00", painted.Style.Background)
	}
	if painted.Style.Foreground != core.ColorBlack {
		t.Errorf("painted foreground = %v, want black", painted.Style.Foreground)
	}
	if bg := b.GetCell(1, 0).Style.Background; bg != DefaultTheme().Background {
		t.Errorf("empty background = %v", bg)
	}
	if b.Shows() != 1 {
		t.Errorf("Shows() = %d, want 1", b.Shows())
	}
}

func TestRenderCursor(t *testing.T) {
	b := newBackend(t, 6, 3)
	r := New(b, DefaultTheme())

	f := testFrame(t)
	f.ShowCursor = true
	f.Cursor = engine.Pos{Row: 1, Col: 0}
	r.Render(f)

	if got := b.Row(1); got != "[]· ? " {
		t.Errorf("Row(1) = %q, want %q", got, "[]· ? ")
	}
	if fg := b.GetCell(0, 1).Style.Foreground; fg != DefaultTheme().Cursor {
		t.Errorf("cursor color = %v", fg)
	}

	f.CellWidth = 1
	f.Cursor = engine.Pos{Row: 0, Col: 2}
	r.Render(f)
	if got := b.Row(0); got != "·G+   " {
		t.Errorf("narrow Row(0) = %q, want %q", got, "·G+   ")
	}
}
