// Package fill implements flood fill over persistent grids.
package fill

import "github.com/dshills/tilestorm/internal/engine/grid"

// Region replaces the 4-connected region containing start with v.
//
// The region is every cell reachable from start through up/down/left/right
// steps whose value in g equals the value at start, using g's element
// equality. Membership is always tested against g, never against the grid
// being built. If start is out of bounds or the region already holds v,
// g itself is returned, so the result is Same as g.
func Region[T any](g grid.Grid[T], start grid.Pos, v T) grid.Grid[T] {
	out, _ := RegionCount(g, start, v)
	return out
}

// RegionCount is Region that also reports how many cells changed.
func RegionCount[T any](g grid.Grid[T], start grid.Pos, v T) (grid.Grid[T], int) {
	target, ok := g.At(start)
	if !ok {
		return g, 0
	}

	work := g
	changed := 0
	frontier := []grid.Pos{start}

	for len(frontier) > 0 {
		p := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		cur, ok := g.At(p)
		if !ok || !g.Equal(cur, target) {
			continue
		}

		next, ok := work.Set(p.Row, p.Col, v)
		if !ok || next.Same(work) {
			// Already converted by another branch, or already v.
			continue
		}

		work = next
		changed++
		frontier = append(frontier, g.Neighbors(p)...)
	}

	return work, changed
}
