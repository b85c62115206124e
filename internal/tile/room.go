package tile

import (
	"iter"

	"github.com/dshills/tilestorm/internal/engine/seq"
)

// Room is a paintable slot bound to a material.
type Room struct {
	Material Material
}

// Rooms is an immutable list of rooms.
type Rooms struct {
	list seq.Seq[Room]
}

// NewRooms creates a room list with one room using first.
func NewRooms(first Material) Rooms {
	return Rooms{list: seq.New(Room{Material: first})}
}

// Len returns the number of rooms.
func (r Rooms) Len() int {
	return r.list.Len()
}

// Get returns the room at index i.
func (r Rooms) Get(i int) (Room, bool) {
	return r.list.Get(i)
}

// Material returns the material referenced by a cell.
// The second result is false for empty cells and dangling references.
func (r Rooms) Material(c Cell) (Material, bool) {
	i, ok := c.Room()
	if !ok {
		return Material{}, false
	}
	room, ok := r.list.Get(i)
	if !ok {
		return Material{}, false
	}
	return room.Material, true
}

// Add returns a room list with a new room using m appended.
func (r Rooms) Add(m Material) Rooms {
	return Rooms{list: r.list.PushBack(Room{Material: m})}
}

// SetMaterial returns a room list with room i bound to m.
// The second result is false if i is out of range. Setting the material a
// room already has returns a list that is Same as r.
func (r Rooms) SetMaterial(i int, m Material) (Rooms, bool) {
	next, ok := r.list.Set(i, Room{Material: m})
	if !ok {
		return r, false
	}
	return Rooms{list: next}, true
}

// Rebind maps every room onto the material with the same name in c,
// falling back to c's first material when a name disappeared.
func (r Rooms) Rebind(c Catalog) Rooms {
	first, ok := c.First()
	if !ok {
		return r
	}
	out := r
	for i, room := range r.list.All() {
		m := first
		if j := c.Index(room.Material.Name); j >= 0 {
			m, _ = c.Material(j)
		}
		out, _ = out.SetMaterial(i, m)
	}
	return out
}

// All returns an iterator over the rooms.
func (r Rooms) All() iter.Seq2[int, Room] {
	return r.list.All()
}

// Same reports whether r and other share storage.
func (r Rooms) Same(other Rooms) bool {
	return r.list.Same(other.list)
}
