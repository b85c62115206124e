package renderer

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/renderer/backend"
	"github.com/dshills/tilestorm/internal/renderer/core"
	"github.com/dshills/tilestorm/internal/tile"
)

// Glyphs used on the canvas.
const (
	GlyphEmpty    = '·'
	GlyphDangling = '?'
	GlyphCursorL  = '['
	GlyphCursorR  = ']'
	GlyphCursor   = '+'
)

// Theme holds the frontend colors.
type Theme struct {
	Background core.Color
	GridLine   core.Color
	Cursor     core.Color
	StatusFg   core.Color
	StatusBg   core.Color
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: core.MustHex("#1e1e2e"),
		GridLine:   core.MustHex("#45475a"),
		Cursor:     core.MustHex("#f5e0dc"),
		StatusFg:   core.MustHex("#cdd6f4"),
		StatusBg:   core.MustHex("#313244"),
	}
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Grid       engine.Grid
	Rooms      tile.Rooms
	CellWidth  int
	Cursor     engine.Pos
	ShowCursor bool
	Status     string
}

// Renderer draws frames onto a backend.
type Renderer struct {
	backend backend.Backend
	theme   Theme
}

// New creates a renderer for b.
func New(b backend.Backend, theme Theme) *Renderer {
	return &Renderer{backend: b, theme: theme}
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Layout returns the screen layout for g at the given cell width.
func (r *Renderer) Layout(g engine.Grid, cellWidth int) Layout {
	return NewLayout(g.Rows(), g.Cols(), cellWidth)
}

// Render draws f and flushes it to the display.
func (r *Renderer) Render(f Frame) {
	width, height := r.backend.Size()
	background := core.NewStyledCell(' ', core.DefaultStyle().WithBackground(r.theme.Background))
	r.backend.Fill(core.RectFromSize(0, 0, height, width), background)

	layout := r.Layout(f.Grid, f.CellWidth)
	for pos, c := range f.Grid.All() {
		r.drawCell(layout, pos, c, f.Rooms)
	}
	if f.ShowCursor && f.Grid.InBounds(f.Cursor.Row, f.Cursor.Col) {
		r.drawCursor(layout.Rect(f.Cursor.Row, f.Cursor.Col))
	}

	r.drawStatus(f.Status, width, height)
	r.backend.HideCursor()
	r.backend.Show()
}

func (r *Renderer) drawCell(layout Layout, pos engine.Pos, c tile.Cell, rooms tile.Rooms) {
	rect := layout.Rect(pos.Row, pos.Col)
	style := core.DefaultStyle().WithBackground(r.theme.Background).WithForeground(r.theme.GridLine)
	glyph := GlyphEmpty

	if !c.IsEmpty() {
		if m, ok := rooms.Material(c); ok {
			bg := core.ColorFromColorful(m.TerminalColor())
			style = core.DefaultStyle().WithBackground(bg).WithForeground(bg.Contrast())
			glyph = initial(m.Name)
		} else {
			glyph = GlyphDangling
		}
	}

	r.backend.Fill(rect, core.NewStyledCell(' ', style))
	r.backend.SetCell(rect.Left+(rect.Width()-1)/2, rect.Top, core.NewStyledCell(glyph, style))
}

func (r *Renderer) drawCursor(rect core.ScreenRect) {
	style := r.backend.GetCell(rect.Left, rect.Top).Style.WithForeground(r.theme.Cursor).Bold()
	if rect.Width() < 2 {
		r.backend.SetCell(rect.Left, rect.Top, core.NewStyledCell(GlyphCursor, style))
		return
	}
	r.backend.SetCell(rect.Left, rect.Top, core.NewStyledCell(GlyphCursorL, style))
	r.backend.SetCell(rect.Right-1, rect.Top, core.NewStyledCell(GlyphCursorR, style))
}

func (r *Renderer) drawStatus(status string, width, height int) {
	if height < 1 {
		return
	}
	y := height - 1
	style := core.DefaultStyle().WithForeground(r.theme.StatusFg).WithBackground(r.theme.StatusBg)
	r.backend.Fill(core.RectFromSize(y, 0, 1, width), core.NewStyledCell(' ', style))

	x := 1
	for _, ch := range status {
		if x >= width {
			break
		}
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
		x++
	}
}

func initial(name string) rune {
	ch, _ := utf8.DecodeRuneInString(name)
	if ch == utf8.RuneError {
		return '#'
	}
	return unicode.ToUpper(ch)
}
