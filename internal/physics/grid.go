package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection over a
// bounded playfield. Objects are inserted by position and index, then nearby
// objects can be queried via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood. Positions outside the playfield land in the edge cells.
type SpatialGrid struct {
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
}

// NewSpatialGrid creates a spatial grid covering the given world dimensions.
func NewSpatialGrid(worldW, worldH, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(worldW/cellSize)), 1)
	rows := max(int(math.Ceil(worldH/cellSize)), 1)
	return &SpatialGrid{
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by index) at the given world position.
func (g *SpatialGrid) Insert(p Vec, index int) {
	col, row := g.posToCell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around p. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(p Vec, fn func(index int) bool) {
	col, row := g.posToCell(p)
	for r := max(row-1, 0); r <= min(row+1, g.rows-1); r++ {
		for c := max(col-1, 0); c <= min(col+1, g.cols-1); c++ {
			for _, item := range g.cells[r*g.cols+c] {
				if fn(item) {
					return
				}
			}
		}
	}
}

// posToCell converts world coordinates to grid cell coordinates, clamped to
// the grid.
func (g *SpatialGrid) posToCell(p Vec) (col, row int) {
	col = min(max(int(math.Floor(p.X*g.invCellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(p.Y*g.invCellSize)), 0), g.rows-1)
	return col, row
}
