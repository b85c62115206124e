package app

import (
	"fmt"
	"strings"

	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/renderer"
	"github.com/dshills/tilestorm/internal/tile"
)

// ============================================================================
// Tools
// ============================================================================

func (app *Application) selectTool(t Tool) {
	app.tool = t
	app.setMessage("")
}

// cycleScript selects the script tool, or the next script if it is
// already selected.
func (app *Application) cycleScript() {
	n := app.scriptCount()
	if n == 0 {
		app.setMessage(ErrNoScripts.Error())
		return
	}
	if app.tool == ToolScript {
		app.scriptIndex = (app.scriptIndex + 1) % n
	} else {
		app.scriptIndex %= n
	}
	app.tool = ToolScript
	app.setMessage("")
}

func (app *Application) currentScript() (string, bool) {
	if app.scripts == nil {
		return "", false
	}
	names := app.scripts.Names()
	if len(names) == 0 {
		return "", false
	}
	return names[app.scriptIndex%len(names)], true
}

func (app *Application) toolName() string {
	if app.tool == ToolScript {
		if name, ok := app.currentScript(); ok {
			return name
		}
	}
	return app.tool.String()
}

// applyTool applies the current tool at pos and reports whether the grid changed.
func (app *Application) applyTool(pos engine.Pos) bool {
	room := tile.RoomCell(app.selected)
	switch app.tool {
	case ToolBrush:
		return app.engine.Paint(pos.Row, pos.Col, room)
	case ToolEraser:
		return app.engine.Erase(pos.Row, pos.Col)
	case ToolFill:
		return app.engine.Fill(pos.Row, pos.Col, room)
	case ToolScript:
		return app.runScript(pos, room)
	}
	return false
}

func (app *Application) runScript(pos engine.Pos, room tile.Cell) bool {
	name, ok := app.currentScript()
	if !ok {
		app.setMessage(ErrNoScripts.Error())
		return false
	}

	g, err := app.scripts.Run(app.ctx, name, app.engine.Grid(), pos.Row, pos.Col, room)
	if err != nil {
		app.logger.Warn("script failed", "script", name, "error", err)
		app.setMessage(err.Error())
		app.beep()
		return false
	}
	return app.engine.Apply(name, g)
}

func (app *Application) applyAtCursor() {
	app.clampCursor()
	app.applyTool(app.cursor)
}

func (app *Application) cancelStroke() {
	if !app.painting {
		return
	}
	app.painting = false
	app.engine.CancelStroke()
	app.setMessage("stroke cancelled")
}

// ============================================================================
// History and grid
// ============================================================================

func (app *Application) undo() {
	app.release()
	app.report(app.engine.UndoE())
}

func (app *Application) redo() {
	app.release()
	app.report(app.engine.RedoE())
}

// report shows err on the status line and beeps, or clears the line.
func (app *Application) report(err error) {
	if err != nil {
		app.setMessage(err.Error())
		app.beep()
		return
	}
	app.setMessage("")
}

func (app *Application) markCheckpoint() {
	app.release()
	app.mark = app.engine.CreateCheckpoint()
	app.marked = true
	app.hasAhead = false
	app.setMessage("checkpoint set")
}

// backToMark undoes to the checkpoint, remembering where it came from so
// forwardFromMark can replay.
func (app *Application) backToMark() {
	if !app.marked {
		app.report(ErrNoCheckpoint)
		return
	}
	app.release()
	app.ahead = app.engine.CreateCheckpoint()
	app.hasAhead = true
	app.engine.UndoToCheckpoint(app.mark)
	app.setMessage("back to checkpoint")
}

func (app *Application) forwardFromMark() {
	if !app.hasAhead {
		app.report(ErrNoCheckpoint)
		return
	}
	app.release()
	app.engine.RedoToCheckpoint(app.ahead)
	app.hasAhead = false
	app.setMessage("")
}

// showHistory lists the most recent undo entries, newest first.
func (app *Application) showHistory() {
	const shown = 5
	infos := app.engine.UndoHistory()
	if len(infos) == 0 {
		app.setMessage("history empty")
		return
	}
	names := make([]string, 0, shown)
	for i := len(infos) - 1; i >= 0 && len(names) < shown; i-- {
		names = append(names, infos[i].Description)
	}
	app.setMessage("history: " + strings.Join(names, ", "))
}

func (app *Application) clear() {
	app.release()
	app.engine.Clear()
}

func (app *Application) grow(edge engine.Edge) {
	app.release()
	if !app.engine.Grow(edge) {
		return
	}
	// Keep the cursor on the same cell
	switch edge {
	case engine.EdgeTop:
		app.cursor.Row++
	case engine.EdgeLeft:
		app.cursor.Col++
	}
}

func (app *Application) moveCursor(dr, dc int) {
	app.cursor.Row += dr
	app.cursor.Col += dc
	app.clampCursor()
}

// clampCursor keeps the cursor inside the grid, which can shrink on undo.
func (app *Application) clampCursor() {
	app.cursor.Row = min(max(app.cursor.Row, 0), app.engine.Rows()-1)
	app.cursor.Col = min(max(app.cursor.Col, 0), app.engine.Cols()-1)
}

func (app *Application) zoom(delta int) {
	app.cellWidth = min(max(app.cellWidth+delta, 1), MaxCellWidth)
}

// ============================================================================
// Rooms
// ============================================================================

func (app *Application) addRoom() {
	first, ok := app.catalog.First()
	if !ok {
		return
	}
	app.rooms = app.rooms.Add(first)
	app.selected = app.rooms.Len() - 1
	app.setMessage(fmt.Sprintf("room %d added", app.selected+1))
}

// pickRoom selects the room painted at screen position (x, y).
func (app *Application) pickRoom(x, y int) {
	pos, ok := app.layout().PosAt(x, y)
	if !ok {
		return
	}
	c, _ := app.engine.Cell(pos.Row, pos.Col)
	i, ok := c.Room()
	if !ok || i >= app.rooms.Len() {
		return
	}
	app.selected = i
	app.cursor = pos
	app.setMessage(fmt.Sprintf("room %d picked", i+1))
}

func (app *Application) nextRoom() {
	app.selected = (app.selected + 1) % app.rooms.Len()
}

func (app *Application) selectedMaterial() tile.Material {
	room, _ := app.rooms.Get(app.selected)
	return room.Material
}

// cycleMaterial binds the selected room to the next catalog material.
// Every cell painted with the room changes with it.
func (app *Application) cycleMaterial() {
	next, ok := app.catalog.Next(app.selectedMaterial())
	if !ok {
		return
	}
	app.rooms, _ = app.rooms.SetMaterial(app.selected, next)
}

// ============================================================================
// Display
// ============================================================================

func (app *Application) setMessage(msg string) {
	app.message = msg
}

func (app *Application) beep() {
	if b := app.getBackend(); b != nil {
		b.Beep()
	}
}

func (app *Application) layout() renderer.Layout {
	return renderer.NewLayout(app.engine.Rows(), app.engine.Cols(), app.cellWidth)
}

// StatusLine returns the text shown on the bottom line.
func (app *Application) StatusLine() string {
	parts := []string{
		app.toolName(),
		fmt.Sprintf("room %d/%d %s", app.selected+1, app.rooms.Len(), app.selectedMaterial()),
		fmt.Sprintf("undo %d redo %d", app.engine.UndoCount(), app.engine.RedoCount()),
		fmt.Sprintf("%dx%d", app.engine.Rows(), app.engine.Cols()),
	}
	if app.message != "" {
		parts = append(parts, app.message)
	}
	return strings.Join(parts, " │ ")
}

func (app *Application) frame() renderer.Frame {
	app.clampCursor()
	return renderer.Frame{
		Grid:       app.engine.Grid(),
		Rooms:      app.rooms,
		CellWidth:  app.cellWidth,
		Cursor:     app.cursor,
		ShowCursor: true,
		Status:     app.StatusLine(),
	}
}

func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	app.renderer.Render(app.frame())
}
