package world

import (
	"sync"

	"mini-voxel/internal/profiling"
)

// Streamer fills a grid with generated cell columns around a point and drops
// columns that fall out of range.
type Streamer struct {
	grid *Grid
	gen  TerrainGenerator

	// highest populated cell Y per column (cellX, cellZ); -1 for empty columns
	columns   map[[2]int]int
	columnsMu sync.Mutex
}

// NewStreamer creates a streamer writing gen's terrain into grid.
func NewStreamer(grid *Grid, gen TerrainGenerator) *Streamer {
	return &Streamer{
		grid:    grid,
		gen:     gen,
		columns: make(map[[2]int]int),
	}
}

// PopulateAround generates every column within radius cells (square) of world
// position (x, z) that has not been generated yet. Returns number of cells
// populated.
func (s *Streamer) PopulateAround(x, z float32, radius int) int {
	defer profiling.Track("world.PopulateAround")()
	size := s.grid.CellSize()
	cx := floorDiv(floorCoord(x), size)
	cz := floorDiv(floorCoord(z), size)

	n := 0
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			n += s.populateColumn(cx+dx, cz+dz)
		}
	}
	return n
}

func (s *Streamer) populateColumn(cellX, cellZ int) int {
	key := [2]int{cellX, cellZ}
	s.columnsMu.Lock()
	_, done := s.columns[key]
	s.columnsMu.Unlock()
	if done {
		return 0
	}

	// tallest column inside the cell footprint decides how many cells to stack
	size := s.grid.CellSize()
	top := 0
	for x := range size {
		for z := range size {
			top = max(top, s.gen.HeightAt(cellX*size+x, cellZ*size+z))
		}
	}
	maxCellY := -1
	if top > 0 {
		maxCellY = floorDiv(top-1, size)
	}
	for cy := 0; cy <= maxCellY; cy++ {
		s.gen.Populate(s.grid, CellCoord{X: cellX, Y: cy, Z: cellZ})
	}

	s.columnsMu.Lock()
	s.columns[key] = maxCellY
	s.columnsMu.Unlock()
	return maxCellY + 1
}

// EvictFar removes cells outside radius (circular, in cells) of world position
// (x, z) and forgets their columns so they can be generated again. Returns
// the removed cells.
func (s *Streamer) EvictFar(x, z float32, radius int) []CellCoord {
	size := s.grid.CellSize()
	cx := floorDiv(floorCoord(x), size)
	cz := floorDiv(floorCoord(z), size)

	removed := s.grid.EvictFar(cx, cz, radius)

	s.columnsMu.Lock()
	for key := range s.columns {
		dx := key[0] - cx
		dz := key[1] - cz
		if dx*dx+dz*dz > radius*radius {
			delete(s.columns, key)
		}
	}
	s.columnsMu.Unlock()

	return removed
}

// Columns returns the number of generated columns.
func (s *Streamer) Columns() int {
	s.columnsMu.Lock()
	defer s.columnsMu.Unlock()
	return len(s.columns)
}
