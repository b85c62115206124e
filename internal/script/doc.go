// Package script provides Lua-scripted canvas tools for Tilestorm.
//
// A tool script is a Lua file that defines a global apply function:
//
//	function apply(canvas, row, col, room)
//	  for c = 0, canvas.cols() - 1 do
//	    canvas.set(row, c, room)
//	  end
//	end
//
// The canvas argument exposes the grid under edit:
//
//   - canvas.rows(), canvas.cols(): grid dimensions
//   - canvas.get(r, c): room index at (r, c), or nil when empty or out of bounds
//   - canvas.set(r, c, room): sets (r, c) to a room index, or empties it
//     when room is nil; returns false if (r, c) is out of bounds
//
// Positions are zero-based, matching the editor. Every set produces a new
// persistent grid, so a script run yields one grid value the caller records
// as a single history entry.
//
// # Sandbox
//
// Scripts run in a fresh Lua state per run with only the base, table,
// string and math libraries. dofile, loadfile, load, loadstring and require
// are removed; print is routed to the logger. A run is bounded by an
// execution timeout and an instruction budget charged by canvas calls.
package script
