package world

// Air is the empty voxel code. Codes 1..N select a material tile.
const Air uint8 = 0

// CellCoord identifies a cell by floor(worldCoord / cellSize) on each axis.
type CellCoord struct {
	X, Y, Z int
}

// Add returns the coordinate offset by (dx, dy, dz) cells.
func (c CellCoord) Add(dx, dy, dz int) CellCoord {
	return CellCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// Cell is a dense cube of size³ voxel codes indexed y*size² + z*size + x.
type Cell struct {
	coord    CellCoord
	voxels   []uint8
	solid    int
	dirty    bool
	revision uint64
	// gen counts dirty marks, including marks from neighbour edits
	gen uint64
}

// newCell allocates a zero-filled cell. New cells start dirty so they get meshed once.
func newCell(coord CellCoord, size int) *Cell {
	return &Cell{
		coord:  coord,
		voxels: make([]uint8, size*size*size),
		dirty:  true,
	}
}

// get returns the code stored at a local offset
func (c *Cell) get(offset int) uint8 {
	return c.voxels[offset]
}

// set stores code at offset and reports whether the stored value changed
func (c *Cell) set(offset int, code uint8) bool {
	old := c.voxels[offset]
	if old == code {
		return false
	}
	c.voxels[offset] = code
	switch {
	case old == Air:
		c.solid++
	case code == Air:
		c.solid--
	}
	c.revision++
	c.markDirty()
	return true
}

func (c *Cell) markDirty() {
	c.dirty = true
	c.gen++
}
