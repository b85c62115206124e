// Package tile defines what the editor paints: materials, rooms and cells.
//
// A Material is a tile image entry from the catalog. A Room binds a material
// to a slot the user paints with; cells on the canvas reference rooms, not
// materials, so two rooms that share a material still form separate regions
// for the fill tool. Changing a room's material recolors every cell that
// references it without touching the canvas.
//
// Catalogs are JSON, either a bare array or an object with a "materials"
// array:
//
//	[
//	  {"name": "stone", "href": "tiles/stone.png", "size": 16, "color": "#8a8a8a"},
//	  {"name": "grass", "href": "tiles/grass.png", "size": 16}
//	]
package tile
