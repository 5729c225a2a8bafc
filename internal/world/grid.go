package world

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"mini-voxel/internal/config"
	"mini-voxel/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Reader is read access to voxel codes by world coordinate.
type Reader interface {
	Voxel(x, y, z int) uint8
}

// Grid is a sparse voxel volume made of lazily allocated cells.
// All methods are safe for concurrent use; a single RWMutex guards the cell map
// and the voxel contents.
type Grid struct {
	size  int
	slice int // size*size

	mu    sync.RWMutex
	cells map[CellCoord]*Cell
}

// NewGrid creates an empty grid with cubic cells of the given side length.
func NewGrid(cellSize int) (*Grid, error) {
	if err := config.ValidateCellSize(cellSize); err != nil {
		return nil, fmt.Errorf("world.NewGrid: %w", err)
	}
	return &Grid{
		size:  cellSize,
		slice: cellSize * cellSize,
		cells: make(map[CellCoord]*Cell),
	}, nil
}

// CellSize returns the side length of every cell.
func (g *Grid) CellSize() int {
	return g.size
}

// CellKey returns the coordinate of the cell owning world voxel (x, y, z).
func (g *Grid) CellKey(x, y, z int) CellCoord {
	return CellCoord{X: floorDiv(x, g.size), Y: floorDiv(y, g.size), Z: floorDiv(z, g.size)}
}

// VoxelOffset maps a world voxel coordinate to its index inside the owning cell.
func (g *Grid) VoxelOffset(x, y, z int) int {
	return mod(y, g.size)*g.slice + mod(z, g.size)*g.size + mod(x, g.size)
}

// CellOrigin returns the world coordinate of local voxel (0, 0, 0) of a cell.
func (g *Grid) CellOrigin(c CellCoord) (int, int, int) {
	return c.X * g.size, c.Y * g.size, c.Z * g.size
}

// Voxel returns the code at (x, y, z), or Air if the owning cell was never written.
func (g *Grid) Voxel(x, y, z int) uint8 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.voxel(x, y, z)
}

func (g *Grid) voxel(x, y, z int) uint8 {
	cell, ok := g.cells[g.CellKey(x, y, z)]
	if !ok {
		return Air
	}
	return cell.get(g.VoxelOffset(x, y, z))
}

// VoxelAt is Voxel for a floating point position; each axis is floored first.
func (g *Grid) VoxelAt(pos mgl32.Vec3) uint8 {
	return g.Voxel(floorCoord(pos.X()), floorCoord(pos.Y()), floorCoord(pos.Z()))
}

// SetVoxel writes code at (x, y, z), allocating the owning cell if needed.
// When the write changes a voxel on a cell border, the existing neighbour
// cells sharing that border are marked dirty as well.
func (g *Grid) SetVoxel(x, y, z int, code uint8) {
	defer profiling.Track("world.SetVoxel")()
	g.mu.Lock()
	defer g.mu.Unlock()

	key := g.CellKey(x, y, z)
	cell, ok := g.cells[key]
	if !ok {
		cell = newCell(key, g.size)
		g.cells[key] = cell
	}
	if !cell.set(g.VoxelOffset(x, y, z), code) {
		return
	}

	lx, ly, lz := mod(x, g.size), mod(y, g.size), mod(z, g.size)
	last := g.size - 1
	if lx == 0 {
		g.markDirty(key.Add(-1, 0, 0))
	}
	if lx == last {
		g.markDirty(key.Add(1, 0, 0))
	}
	if ly == 0 {
		g.markDirty(key.Add(0, -1, 0))
	}
	if ly == last {
		g.markDirty(key.Add(0, 1, 0))
	}
	if lz == 0 {
		g.markDirty(key.Add(0, 0, -1))
	}
	if lz == last {
		g.markDirty(key.Add(0, 0, 1))
	}
}

// SetVoxelAt is SetVoxel for a floating point position; each axis is floored first.
func (g *Grid) SetVoxelAt(pos mgl32.Vec3, code uint8) {
	g.SetVoxel(floorCoord(pos.X()), floorCoord(pos.Y()), floorCoord(pos.Z()), code)
}

func (g *Grid) markDirty(c CellCoord) {
	if nb, ok := g.cells[c]; ok {
		nb.markDirty()
	}
}

// Fill sets every voxel of cell c to fn(worldX, worldY, worldZ) in one locked
// pass. Zero results leave the voxel untouched. The cell is only allocated if
// fn returns at least one non-zero code.
func (g *Grid) Fill(c CellCoord, fn func(x, y, z int) uint8) {
	defer profiling.Track("world.Fill")()
	g.mu.Lock()
	defer g.mu.Unlock()

	ox, oy, oz := g.CellOrigin(c)
	cell := g.cells[c]
	changed := false
	for y := range g.size {
		for z := range g.size {
			for x := range g.size {
				code := fn(ox+x, oy+y, oz+z)
				if code == Air {
					continue
				}
				if cell == nil {
					cell = newCell(c, g.size)
					g.cells[c] = cell
				}
				if cell.set(y*g.slice+z*g.size+x, code) {
					changed = true
				}
			}
		}
	}
	if changed {
		for _, d := range neighborOffsets[1:] {
			g.markDirty(c.Add(d[0], d[1], d[2]))
		}
	}
}

// neighborOffsets lists self followed by the six axis neighbours: -X, +X, -Y, +Y, -Z, +Z.
var neighborOffsets = [7][3]int{
	{0, 0, 0},
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
}

// AffectedCells returns the distinct cells owning (x, y, z) and each of its six
// axis neighbours, in the order self, -X, +X, -Y, +Y, -Z, +Z. These are the
// cells whose mesh may change when the voxel at (x, y, z) changes.
func (g *Grid) AffectedCells(x, y, z int) []CellCoord {
	out := make([]CellCoord, 0, 4)
	for _, d := range neighborOffsets {
		key := g.CellKey(x+d[0], y+d[1], z+d[2])
		if !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	return out
}

// View runs fn while holding the read lock. The Reader passed to fn must not
// escape fn; it gives a consistent snapshot of the grid for the whole call.
func (g *Grid) View(fn func(r Reader)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	fn(gridView{g})
}

type gridView struct{ g *Grid }

func (v gridView) Voxel(x, y, z int) uint8 { return v.g.voxel(x, y, z) }

// HasCell reports whether the cell has been allocated.
func (g *Grid) HasCell(c CellCoord) bool {
	g.mu.RLock()
	_, ok := g.cells[c]
	g.mu.RUnlock()
	return ok
}

// Len returns the number of allocated cells.
func (g *Grid) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.cells)
}

// SolidCount returns the number of non-air voxels in a cell.
func (g *Grid) SolidCount(c CellCoord) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if cell, ok := g.cells[c]; ok {
		return cell.solid
	}
	return 0
}

// Revision returns how many voxel changes the cell has seen.
func (g *Grid) Revision(c CellCoord) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cell, ok := g.cells[c]
	if !ok {
		return 0, false
	}
	return cell.revision, true
}

// CellVoxels returns a copy of a cell's voxel buffer.
func (g *Grid) CellVoxels(c CellCoord) ([]uint8, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cell, ok := g.cells[c]
	if !ok {
		return nil, false
	}
	return slices.Clone(cell.voxels), true
}

// Cells returns the coordinates of all allocated cells in ascending Y, Z, X order.
func (g *Grid) Cells() []CellCoord {
	g.mu.RLock()
	out := make([]CellCoord, 0, len(g.cells))
	for c := range g.cells {
		out = append(out, c)
	}
	g.mu.RUnlock()
	sortCoords(out)
	return out
}

// DirtyCells returns the allocated cells that changed since they were last marked clean.
func (g *Grid) DirtyCells() []CellCoord {
	g.mu.RLock()
	var out []CellCoord
	for c, cell := range g.cells {
		if cell.dirty {
			out = append(out, c)
		}
	}
	g.mu.RUnlock()
	sortCoords(out)
	return out
}

// DirtyGen returns the cell's dirty generation. Capture it before meshing and
// pass it to MarkCleanAt so marks that land during the build are kept.
func (g *Grid) DirtyGen(c CellCoord) (uint64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	cell, ok := g.cells[c]
	if !ok {
		return 0, false
	}
	return cell.gen, true
}

// MarkCleanAt clears the dirty flag only if the cell has not been marked
// dirty again since gen was read. It reports whether the flag was cleared.
func (g *Grid) MarkCleanAt(c CellCoord, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cell, ok := g.cells[c]
	if !ok || cell.gen != gen {
		return false
	}
	cell.dirty = false
	return true
}

// MarkClean clears the dirty flag of a cell after its mesh was rebuilt.
func (g *Grid) MarkClean(c CellCoord) {
	g.mu.Lock()
	if cell, ok := g.cells[c]; ok {
		cell.dirty = false
	}
	g.mu.Unlock()
}

// EvictFar removes cells whose column lies more than radius cells from column
// (cx, cz). Surviving neighbours of removed cells are marked dirty.
// Returns the removed cells in Y, Z, X order.
func (g *Grid) EvictFar(cx, cz, radius int) []CellCoord {
	defer profiling.Track("world.EvictFar")()
	g.mu.Lock()
	defer g.mu.Unlock()

	var removed []CellCoord
	for c := range g.cells {
		dx := c.X - cx
		dz := c.Z - cz
		if dx*dx+dz*dz > radius*radius {
			delete(g.cells, c)
			removed = append(removed, c)
		}
	}
	for _, c := range removed {
		for _, d := range neighborOffsets[1:] {
			g.markDirty(c.Add(d[0], d[1], d[2]))
		}
	}
	sortCoords(removed)
	return removed
}

func sortCoords(cs []CellCoord) {
	slices.SortFunc(cs, func(a, b CellCoord) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Z, b.Z); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
}
