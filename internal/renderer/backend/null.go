package backend

import (
	"sync"

	"github.com/dshills/tilestorm/internal/renderer/core"
)

// NullBackend is an in-memory Backend for tests. It records the screen,
// the cursor, and how often Show and Beep were called.
type NullBackend struct {
	mu     sync.Mutex
	width  int
	height int
	cells  []core.Cell // row-major

	cursor struct {
		x, y    int
		visible bool
	}
	beeps, shows int

	events chan Event
}

// NewNullBackend creates a width x height backend.
func NewNullBackend(width, height int) *NullBackend {
	b := &NullBackend{events: make(chan Event, 100)}
	b.resize(width, height)
	return b
}

func (b *NullBackend) resize(width, height int) {
	b.width, b.height = width, height
	b.cells = make([]core.Cell, width*height)
	for i := range b.cells {
		b.cells[i] = core.EmptyCell()
	}
}

// index returns the offset of (x, y), or -1 off screen.
func (b *NullBackend) index(x, y int) int {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return -1
	}
	return y*b.width + x
}

// Init clears the screen.
func (b *NullBackend) Init() error {
	b.Clear()
	return nil
}

func (b *NullBackend) Shutdown() {}

func (b *NullBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *NullBackend) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(x, y); i >= 0 {
		b.cells[i] = cell
	}
}

func (b *NullBackend) GetCell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.index(x, y); i >= 0 {
		return b.cells[i]
	}
	return core.EmptyCell()
}

func (b *NullBackend) Fill(rect core.ScreenRect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			if i := b.index(x, y); i >= 0 {
				b.cells[i] = cell
			}
		}
	}
}

func (b *NullBackend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cells {
		b.cells[i] = core.EmptyCell()
	}
}

func (b *NullBackend) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

func (b *NullBackend) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor.x, b.cursor.y, b.cursor.visible = x, y, true
}

func (b *NullBackend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor.visible = false
}

func (b *NullBackend) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.beeps++
}

func (b *NullBackend) PollEvent() Event {
	return <-b.events
}

// PostEvent drops the event when the queue is full.
func (b *NullBackend) PostEvent(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

// CursorPosition returns the last cursor position and whether it is shown.
func (b *NullBackend) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor.x, b.cursor.y, b.cursor.visible
}

// Beeps returns how many times Beep was called.
func (b *NullBackend) Beeps() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beeps
}

// Shows returns how many times Show was called.
func (b *NullBackend) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

// Row returns the runes of screen row y.
func (b *NullBackend) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	runes := make([]rune, b.width)
	for x, c := range b.cells[y*b.width : (y+1)*b.width] {
		runes[x] = c.Rune
	}
	return string(runes)
}

// Resize changes the screen size, clearing it, and queues an EventResize.
func (b *NullBackend) Resize(width, height int) {
	b.mu.Lock()
	b.resize(width, height)
	b.mu.Unlock()
	b.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}
