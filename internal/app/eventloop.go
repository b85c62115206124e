package app

import (
	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/renderer/backend"
)

// eventLoop is the main application loop. Every event is handled and
// followed by a full redraw.
func (app *Application) eventLoop(b backend.Backend) error {
	events := app.startInputPolling(b)
	app.render()

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}
			app.render()
		}
	}
}

// startInputPolling starts a goroutine that polls for input events.
// Events are sent to the returned channel.
//
// PollEvent is blocking; Shutdown posts an interrupt to unblock it.
func (app *Application) startInputPolling(b backend.Backend) <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for {
			ev := b.PollEvent()

			select {
			case <-app.done:
				return
			default:
			}

			select {
			case <-app.done:
				return
			case events <- ev:
			}
		}
	}()

	return events
}

// handleBackendEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		app.handleMouseEvent(ev)
	case backend.EventInterrupt:
		app.handleInterrupt(ev.Data)
	case backend.EventFocus:
		// The release of a drag can be lost while unfocused.
		if !ev.Focused {
			app.release()
		}
	}
	return nil
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyCtrlC, backend.KeyCtrlQ:
		return ErrQuit
	case backend.KeyCtrlZ:
		app.undo()
	case backend.KeyCtrlY:
		app.redo()
	case backend.KeyTab:
		app.nextRoom()
	case backend.KeyEscape:
		app.cancelStroke()
	case backend.KeyEnter:
		app.applyAtCursor()
	case backend.KeyUp, backend.KeyDown, backend.KeyLeft, backend.KeyRight:
		if ev.Mod.Has(backend.ModCtrl) {
			app.grow(arrowEdge(ev.Key))
		} else {
			app.moveCursor(arrowDelta(ev.Key))
		}
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	}
	return nil
}

func (app *Application) handleRune(r rune) error {
	switch r {
	case 'q':
		return ErrQuit
	case 'b':
		app.selectTool(ToolBrush)
	case 'e':
		app.selectTool(ToolEraser)
	case 'f':
		app.selectTool(ToolFill)
	case 's':
		app.cycleScript()
	case 'c':
		app.clear()
	case 'u':
		app.undo()
	case 'r':
		app.redo()
	case 'n':
		app.addRoom()
	case 'm':
		app.cycleMaterial()
	case ' ':
		app.applyAtCursor()
	case '+', '=':
		app.zoom(1)
	case '-':
		app.zoom(-1)
	case 'k':
		app.markCheckpoint()
	case '<':
		app.backToMark()
	case '>':
		app.forwardFromMark()
	case 'h':
		app.showHistory()
	}
	return nil
}

// handleMouseEvent paints with the current tool. A press starts a stroke,
// drags extend it and the release (no buttons) records it as one undo step.
func (app *Application) handleMouseEvent(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.zoom(1)
	case backend.MouseWheelDown:
		app.zoom(-1)
	case backend.MouseLeft:
		app.press(ev.MouseX, ev.MouseY)
	case backend.MouseRight:
		app.pickRoom(ev.MouseX, ev.MouseY)
	case backend.MouseNone:
		app.release()
	}
}

func (app *Application) press(x, y int) {
	pos, ok := app.layout().PosAt(x, y)

	if !app.painting {
		if !ok {
			return
		}
		app.painting = true
		app.engine.BeginStroke(app.toolName())
		app.cursor = pos
		app.lastPos = pos
		app.applyTool(pos)
		return
	}

	if !ok || pos == app.lastPos {
		return
	}
	app.cursor = pos
	app.lastPos = pos
	if app.tool.Drags() {
		app.applyTool(pos)
	}
}

func (app *Application) release() {
	if !app.painting {
		return
	}
	app.painting = false
	if app.engine.EndStroke() {
		app.logger.Debug("stroke finished", "tool", app.toolName(), "undo", app.engine.UndoCount())
	}
}

func arrowEdge(k backend.Key) engine.Edge {
	switch k {
	case backend.KeyUp:
		return engine.EdgeTop
	case backend.KeyDown:
		return engine.EdgeBottom
	case backend.KeyLeft:
		return engine.EdgeLeft
	default:
		return engine.EdgeRight
	}
}

func arrowDelta(k backend.Key) (dr, dc int) {
	switch k {
	case backend.KeyUp:
		return -1, 0
	case backend.KeyDown:
		return 1, 0
	case backend.KeyLeft:
		return 0, -1
	default:
		return 0, 1
	}
}
