package driver

// Grid lays out the cells of a rectangular block (the view of a car, the mask of a track) in one
// flat slice. A cell is addressed by one coordinate per axis, and the first axis is the one that
// changes between neighbouring slots: an Encoder's grid of [distance, angle] keeps the distances
// of each angle together.
type Grid struct {
	extent []int

	// stride[i] is how far apart two cells are in the slice when they differ by one along axis i
	stride []int
}

// NewGrid creates a Grid with the given extent along each axis. Every extent must be at least 1.
func NewGrid(extent ...int) *Grid {
	g := &Grid{
		extent: append([]int(nil), extent...),
		stride: make([]int, len(extent)),
	}

	step := 1
	for i, n := range g.extent {
		g.stride[i] = step
		step *= n
	}

	return g
}

// Index returns the position of the cell in the flat slice.
func (g *Grid) Index(cell []int) int {
	index := 0
	for i, c := range cell {
		index += c * g.stride[i]
	}

	return index
}

// Size returns the number of cells.
func (g *Grid) Size() int {
	last := len(g.extent) - 1
	return g.stride[last] * g.extent[last]
}

// Dim returns the extent of the grid along axis d.
func (g *Grid) Dim(d int) int {
	return g.extent[d]
}

// Increment steps the cell to the one in the next slot. Once there are no more cells it returns
// false and leaves the cell at the last one, so a loop over the whole grid reads:
//
//	cell := make([]int, len(dims))
//	for {
//		...
//		if !g.Increment(cell) {
//			break
//		}
//	}
func (g *Grid) Increment(cell []int) bool {
	for i := range cell {
		if cell[i]+1 < g.extent[i] {
			cell[i]++
			return true
		}

		cell[i] = 0
	}

	for i := range cell {
		cell[i] = g.extent[i] - 1
	}

	return false
}
