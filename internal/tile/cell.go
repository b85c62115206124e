package tile

import "math"

// MaxRoom is the largest room index a Cell can reference.
const MaxRoom = math.MaxInt32 - 1

// Cell is the content of one canvas cell: empty or a reference to a room.
// The zero value is empty. Cells compare by value, so two cells are equal
// exactly when they reference the same room slot.
type Cell struct {
	room int32 // room index + 1, 0 when empty
}

// Empty is the empty cell.
var Empty = Cell{}

// RoomCell returns a cell referencing room index i.
// An index outside 0..MaxRoom yields the empty cell.
func RoomCell(i int) Cell {
	if i < 0 || i > MaxRoom {
		return Empty
	}
	return Cell{room: int32(i) + 1}
}

// Room returns the referenced room index.
// The second result is false for the empty cell.
func (c Cell) Room() (int, bool) {
	if c.room == 0 {
		return 0, false
	}
	return int(c.room - 1), true
}

// IsEmpty returns true if the cell references no room.
func (c Cell) IsEmpty() bool {
	return c.room == 0
}
