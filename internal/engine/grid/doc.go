// Package grid provides a persistent rectangular 2D container.
//
// A Grid is a sequence of rows, each row a sequence of cells, both held in
// seq.Seq values. Editing a cell builds a new row and a new row-of-rows;
// every other row is shared with the original grid, so a history of grids
// costs one row allocation per edit rather than a full copy.
//
// Grid identity (Same) is identity of the row-of-rows. Because Set returns
// the receiver unchanged when the cell already holds an equal value, a
// caller can tell whether an edit did anything with a pointer comparison:
//
//	g := grid.New[int](16, 16)
//	next, ok := g.Set(3, 4, 1)
//	if ok && !next.Same(g) {
//		// record history
//	}
//
// Every constructor and mutator keeps the shape invariant: exactly Rows()
// rows of exactly Cols() cells.
package grid
