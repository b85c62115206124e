package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/tilestorm/internal/renderer/core"
)

// Terminal is a Backend drawing to a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
}

// NewTerminal opens the controlling terminal. Call Init before drawing.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen), nil
}

// NewTerminalWithScreen wraps an existing screen, such as a
// tcell.SimulationScreen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// locked runs fn with exclusive access to the screen.
func (t *Terminal) locked(fn func(s tcell.Screen)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.screen)
}

func (t *Terminal) Init() error {
	var err error
	t.locked(func(s tcell.Screen) {
		if err = s.Init(); err == nil {
			s.EnableMouse()
			s.EnableFocus()
		}
	})
	return err
}

func (t *Terminal) Shutdown() {
	t.locked(tcell.Screen.Fini)
}

func (t *Terminal) Size() (width, height int) {
	t.locked(func(s tcell.Screen) { width, height = s.Size() })
	return width, height
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.locked(func(s tcell.Screen) {
		s.SetContent(x, y, cell.Rune, nil, toTcellStyle(cell.Style))
	})
}

func (t *Terminal) GetCell(x, y int) (cell core.Cell) {
	t.locked(func(s tcell.Screen) {
		r, _, style, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		cell = core.Cell{Rune: r, Style: fromTcellStyle(style)}
	})
	return cell
}

func (t *Terminal) Fill(rect core.ScreenRect, cell core.Cell) {
	t.locked(func(s tcell.Screen) {
		style := toTcellStyle(cell.Style)
		w, h := s.Size()
		for y := max(rect.Top, 0); y < min(rect.Bottom, h); y++ {
			for x := max(rect.Left, 0); x < min(rect.Right, w); x++ {
				s.SetContent(x, y, cell.Rune, nil, style)
			}
		}
	})
}

func (t *Terminal) Clear()      { t.locked(tcell.Screen.Clear) }
func (t *Terminal) Show()       { t.locked(tcell.Screen.Show) }
func (t *Terminal) HideCursor() { t.locked(tcell.Screen.HideCursor) }

func (t *Terminal) ShowCursor(x, y int) {
	t.locked(func(s tcell.Screen) { s.ShowCursor(x, y) })
}

func (t *Terminal) Beep() {
	t.locked(func(s tcell.Screen) { _ = s.Beep() })
}

// PollEvent blocks for the next event. It returns EventNone once the
// screen has been shut down.
func (t *Terminal) PollEvent() Event {
	ev := t.screen.PollEvent()
	if ev == nil {
		return Event{Type: EventNone}
	}
	return convertEvent(ev)
}

// PostEvent queues key and interrupt events. Other types are dropped, as
// are events posted to a full queue.
func (t *Terminal) PostEvent(event Event) {
	var ev tcell.Event
	switch event.Type {
	case EventKey:
		ev = tcell.NewEventKey(convertToTcellKey(event.Key), event.Rune, toTcellMod(event.Mod))
	case EventInterrupt:
		ev = tcell.NewEventInterrupt(event.Data)
	default:
		return
	}
	_ = t.screen.PostEvent(ev)
}

var attrTable = []struct {
	ours   core.Attribute
	theirs tcell.AttrMask
}{
	{core.AttrBold, tcell.AttrBold},
	{core.AttrDim, tcell.AttrDim},
	{core.AttrUnderline, tcell.AttrUnderline},
	{core.AttrReverse, tcell.AttrReverse},
}

func toTcellColor(c core.Color) tcell.Color {
	if c.IsDefault() {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func fromTcellColor(c tcell.Color) core.Color {
	if c == tcell.ColorDefault {
		return core.ColorDefault
	}
	r, g, b := c.RGB()
	return core.ColorFromRGB(uint8(r), uint8(g), uint8(b))
}

func toTcellStyle(s core.Style) tcell.Style {
	var attrs tcell.AttrMask
	for _, a := range attrTable {
		if s.Attributes.Has(a.ours) {
			attrs |= a.theirs
		}
	}
	return tcell.StyleDefault.
		Foreground(toTcellColor(s.Foreground)).
		Background(toTcellColor(s.Background)).
		Attributes(attrs)
}

func fromTcellStyle(ts tcell.Style) core.Style {
	fg, bg, attrs := ts.Decompose()
	s := core.Style{
		Foreground: fromTcellColor(fg),
		Background: fromTcellColor(bg),
	}
	for _, a := range attrTable {
		if attrs&a.theirs != 0 {
			s.Attributes |= a.ours
		}
	}
	return s
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: convertKey(e.Key()), Rune: e.Rune(), Mod: fromTcellMod(e.Modifiers())}
	case *tcell.EventMouse:
		x, y := e.Position()
		return Event{
			Type:        EventMouse,
			MouseX:      x,
			MouseY:      y,
			MouseButton: convertMouseButton(e.Buttons()),
			Mod:         fromTcellMod(e.Modifiers()),
		}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}
	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Data: e.Data()}
	}
	return Event{Type: EventNone}
}

// keyTable pairs each Key with the tcell key posted for it.
var keyTable = []struct {
	ours   Key
	theirs tcell.Key
}{
	{KeyEscape, tcell.KeyEscape},
	{KeyEnter, tcell.KeyEnter},
	{KeyTab, tcell.KeyTab},
	{KeyBackspace, tcell.KeyBackspace2},
	{KeyUp, tcell.KeyUp},
	{KeyDown, tcell.KeyDown},
	{KeyLeft, tcell.KeyLeft},
	{KeyRight, tcell.KeyRight},
	{KeyCtrlC, tcell.KeyCtrlC},
	{KeyCtrlQ, tcell.KeyCtrlQ},
	{KeyCtrlY, tcell.KeyCtrlY},
	{KeyCtrlZ, tcell.KeyCtrlZ},
}

func convertKey(k tcell.Key) Key {
	switch k {
	case tcell.KeyRune:
		return KeyRune
	case tcell.KeyBackspace:
		return KeyBackspace
	}
	for _, e := range keyTable {
		if e.theirs == k {
			return e.ours
		}
	}
	return KeyNone
}

func convertToTcellKey(k Key) tcell.Key {
	for _, e := range keyTable {
		if e.ours == k {
			return e.theirs
		}
	}
	return tcell.KeyRune
}

var modTable = []struct {
	ours   ModMask
	theirs tcell.ModMask
}{
	{ModShift, tcell.ModShift},
	{ModCtrl, tcell.ModCtrl},
	{ModAlt, tcell.ModAlt},
	{ModMeta, tcell.ModMeta},
}

func fromTcellMod(m tcell.ModMask) ModMask {
	var out ModMask
	for _, e := range modTable {
		if m&e.theirs != 0 {
			out |= e.ours
		}
	}
	return out
}

func toTcellMod(m ModMask) tcell.ModMask {
	var out tcell.ModMask
	for _, e := range modTable {
		if m.Has(e.ours) {
			out |= e.theirs
		}
	}
	return out
}

// buttonTable is in priority order: the first pressed button wins.
var buttonTable = []struct {
	ours   MouseButton
	theirs tcell.ButtonMask
}{
	{MouseLeft, tcell.Button1},
	{MouseMiddle, tcell.Button3},
	{MouseRight, tcell.Button2},
	{MouseWheelUp, tcell.WheelUp},
	{MouseWheelDown, tcell.WheelDown},
}

func convertMouseButton(b tcell.ButtonMask) MouseButton {
	for _, e := range buttonTable {
		if b&e.theirs != 0 {
			return e.ours
		}
	}
	return MouseNone
}

var (
	_ Backend = (*Terminal)(nil)
	_ Backend = (*NullBackend)(nil)
)
