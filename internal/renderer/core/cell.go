package core

// Attribute is a set of text attributes.
type Attribute uint16

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << (iota - 1)
	AttrDim
	AttrUnderline
	AttrReverse
)

func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Style is how a screen cell is drawn. Styles are values; the With
// methods return modified copies.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle uses the terminal's colors and no attributes.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

func (s Style) Bold() Style {
	s.Attributes |= AttrBold
	return s
}

func (s Style) Reverse() Style {
	s.Attributes |= AttrReverse
	return s
}

// Cell is one character position on screen.
type Cell struct {
	Rune  rune
	Style Style
}

// EmptyCell is a blank in the default style.
func EmptyCell() Cell {
	return NewStyledCell(' ', DefaultStyle())
}

func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Style: style}
}

// ScreenRect is a half-open rectangle of screen cells: rows [Top, Bottom)
// and columns [Left, Right).
type ScreenRect struct {
	Top, Left, Bottom, Right int
}

func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

func (r ScreenRect) Width() int  { return max(r.Right-r.Left, 0) }
func (r ScreenRect) Height() int { return max(r.Bottom-r.Top, 0) }

func (r ScreenRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

func (r ScreenRect) Contains(x, y int) bool {
	return r.Left <= x && x < r.Right && r.Top <= y && y < r.Bottom
}
