package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tilestorm/internal/engine/grid"
	"github.com/dshills/tilestorm/internal/tile"
)

// Canvas is the grid a script edits. Each set replaces the held grid with
// the persistent result, so the original grid is never modified.
type Canvas struct {
	grid grid.Grid[tile.Cell]
	sb   *Sandbox
}

// NewCanvas creates a canvas over g.
func NewCanvas(g grid.Grid[tile.Cell], sb *Sandbox) *Canvas {
	return &Canvas{grid: g, sb: sb}
}

// Grid returns the grid after all edits so far.
func (c *Canvas) Grid() grid.Grid[tile.Cell] {
	return c.grid
}

// Table builds the Lua table passed to apply. Functions accept both
// canvas.get(r, c) and canvas:get(r, c).
func (c *Canvas) Table(L *lua.LState) *lua.LTable {
	tbl := L.NewTable()

	// base returns the index of the first real argument.
	base := func(L *lua.LState) int {
		if L.Get(1) == tbl {
			return 2
		}
		return 1
	}

	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"rows": func(L *lua.LState) int {
			c.sb.charge(L)
			L.Push(lua.LNumber(c.grid.Rows()))
			return 1
		},
		"cols": func(L *lua.LState) int {
			c.sb.charge(L)
			L.Push(lua.LNumber(c.grid.Cols()))
			return 1
		},
		"get": func(L *lua.LState) int {
			c.sb.charge(L)
			n := base(L)
			row, col := L.CheckInt(n), L.CheckInt(n+1)
			cell, ok := c.grid.Get(row, col)
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(cellToLua(cell))
			return 1
		},
		"set": func(L *lua.LState) int {
			c.sb.charge(L)
			n := base(L)
			row, col := L.CheckInt(n), L.CheckInt(n+1)
			cell := cellFromLua(L, n+2)
			next, ok := c.grid.Set(row, col, cell)
			if ok {
				c.grid = next
			}
			L.Push(lua.LBool(ok))
			return 1
		},
	})

	return tbl
}

func cellToLua(c tile.Cell) lua.LValue {
	i, ok := c.Room()
	if !ok {
		return lua.LNil
	}
	return lua.LNumber(i)
}

// cellFromLua reads argument n as a room index, nil meaning empty.
func cellFromLua(L *lua.LState, n int) tile.Cell {
	v := L.Get(n)
	if v == lua.LNil {
		return tile.Empty
	}
	num, ok := v.(lua.LNumber)
	if !ok || num < 0 || float64(num) != float64(int64(num)) {
		L.ArgError(n, "room index or nil expected")
		return tile.Empty
	}
	if num > tile.MaxRoom {
		L.ArgError(n, "room index out of range")
		return tile.Empty
	}
	return tile.RoomCell(int(num))
}
