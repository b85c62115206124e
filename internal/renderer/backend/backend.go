// Package backend abstracts the terminal the editor draws on and reads
// input from.
package backend

import "github.com/dshills/tilestorm/internal/renderer/core"

// EventType identifies the kind of an Event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
	// EventInterrupt wakes the event loop; Data carries the payload.
	EventInterrupt
)

// Event is a terminal event. Only the fields of its Type are set.
type Event struct {
	Type EventType

	Key  Key     // EventKey
	Rune rune    // EventKey with KeyRune
	Mod  ModMask // EventKey, EventMouse

	MouseX, MouseY int // EventMouse, in screen cells
	MouseButton    MouseButton

	Width, Height int  // EventResize
	Focused       bool // EventFocus
	Data          any  // EventInterrupt
}

// Key is a special key. Printable input arrives as KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyCtrlQ
	KeyCtrlY
	KeyCtrlZ
)

// ModMask is a set of modifier keys.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether mod is held.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton is the button held during a mouse event. MouseNone means
// every button is up, which is how releases are reported.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// IsWheel reports whether b is a wheel movement rather than a button.
func (b MouseButton) IsWheel() bool {
	return b == MouseWheelUp || b == MouseWheelDown
}

// Backend is a character-cell display with an input queue.
// Coordinates are screen cells with (0, 0) at the top left; drawing outside
// the screen is ignored.
type Backend interface {
	// Init must be called before any other method.
	Init() error
	// Shutdown restores the terminal.
	Shutdown()

	Size() (width, height int)
	SetCell(x, y int, cell core.Cell)
	GetCell(x, y int) core.Cell
	Fill(rect core.ScreenRect, cell core.Cell)
	Clear()

	// Show flushes drawing to the display.
	Show()
	ShowCursor(x, y int)
	HideCursor()
	Beep()

	// PollEvent blocks until the next event.
	PollEvent() Event
	// PostEvent queues a synthetic event. Safe from any goroutine.
	PostEvent(event Event)
}
