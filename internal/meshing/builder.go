package meshing

import (
	"fmt"

	"mini-voxel/internal/config"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"
)

// Builder turns grid cells into face-culled geometry batches.
type Builder struct {
	grid  *world.Grid
	atlas config.Atlas
	sw    float32
	sh    float32
}

// NewBuilder pairs a grid with a texture atlas layout. The atlas is fixed for
// the builder's lifetime.
func NewBuilder(grid *world.Grid, atlas config.Atlas) (*Builder, error) {
	if grid == nil {
		return nil, fmt.Errorf("meshing.NewBuilder: %w: nil grid", config.ErrInvalidConfig)
	}
	if err := atlas.Validate(); err != nil {
		return nil, fmt.Errorf("meshing.NewBuilder: %w", err)
	}
	return &Builder{
		grid:  grid,
		atlas: atlas,
		sw:    float32(atlas.TileSize) / float32(atlas.Width),
		sh:    float32(atlas.TileSize) / float32(atlas.Height),
	}, nil
}

// Grid returns the grid the builder reads from.
func (b *Builder) Grid() *world.Grid {
	return b.grid
}

// Atlas returns the atlas layout used for UVs.
func (b *Builder) Atlas() config.Atlas {
	return b.atlas
}

// BuildCellMesh meshes cell (cx, cy, cz). Each solid voxel emits a quad for
// every face whose neighbour (possibly in another cell) is empty. With
// blockHeight below 1 the top and bottom faces are always emitted, since
// stacked slabs leave a gap between them.
//
// The grid is read-locked for the whole build, so concurrent writers cannot
// produce a half-updated batch.
func (b *Builder) BuildCellMesh(cx, cy, cz int, blockHeight float32) *Geometry {
	defer profiling.Track("meshing.BuildCellMesh")()
	var geo *Geometry
	b.grid.View(func(r world.Reader) {
		geo = b.build(r, world.CellCoord{X: cx, Y: cy, Z: cz}, blockHeight)
	})
	return geo
}

func (b *Builder) build(r world.Reader, cell world.CellCoord, blockHeight float32) *Geometry {
	size := b.grid.CellSize()
	faces := Faces(blockHeight)
	slab := normalizeHeight(blockHeight) < 1
	startX, startY, startZ := b.grid.CellOrigin(cell)

	geo := &Geometry{Cell: cell}
	for y := range size {
		vy := startY + y
		for z := range size {
			vz := startZ + z
			for x := range size {
				vx := startX + x
				code := r.Voxel(vx, vy, vz)
				if code == world.Air {
					continue
				}
				// code 1 maps to the first atlas column
				tile := float32(code - 1)
				for i := range faces {
					f := &faces[i]
					if !(slab && f.Dir[1] != 0) &&
						r.Voxel(vx+f.Dir[0], vy+f.Dir[1], vz+f.Dir[2]) != world.Air {
						continue
					}
					geo.appendFace(f, float32(x), float32(y), float32(z), tile, b.sw, b.sh)
				}
			}
		}
	}
	return geo
}
