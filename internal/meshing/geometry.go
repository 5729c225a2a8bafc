package meshing

import (
	"encoding/binary"
	"math"
	"slices"

	"mini-voxel/internal/world"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// Geometry is the meshed output of one cell. Positions are local to the cell
// origin (cell coordinate * cell size).
type Geometry struct {
	Cell      world.CellCoord
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	UVs       []float32 // 2 per vertex
	Indices   []uint32  // 6 per face
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// FaceCount returns the number of emitted quads.
func (g *Geometry) FaceCount() int {
	return len(g.Indices) / 6
}

// Empty reports whether the batch has no triangles.
func (g *Geometry) Empty() bool {
	return len(g.Indices) == 0
}

// Clone returns a deep copy.
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Cell:      g.Cell,
		Positions: slices.Clone(g.Positions),
		Normals:   slices.Clone(g.Normals),
		UVs:       slices.Clone(g.UVs),
		Indices:   slices.Clone(g.Indices),
	}
}

// Checksum hashes the buffer contents. Two batches with equal checksums are
// byte-identical for all practical purposes.
func (g *Geometry) Checksum() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 4096)
	flush := func() {
		_, _ = d.Write(buf)
		buf = buf[:0]
	}
	put := func(v uint32) {
		if len(buf)+4 > cap(buf) {
			flush()
		}
		buf = binary.LittleEndian.AppendUint32(buf, v)
	}
	for _, s := range [][]float32{g.Positions, g.Normals, g.UVs} {
		put(uint32(len(s)))
		for _, f := range s {
			put(math.Float32bits(f))
		}
	}
	put(uint32(len(g.Indices)))
	for _, i := range g.Indices {
		put(i)
	}
	flush()
	return d.Sum64()
}

// appendFace appends one quad's four vertices and six indices. tile is the
// atlas column (voxel code - 1); sw and sh are tileSize/atlasWidth and
// tileSize/atlasHeight.
func (g *Geometry) appendFace(f *Face, x, y, z float32, tile, sw, sh float32) {
	base := uint32(g.VertexCount())
	n := f.Normal()
	origin := mgl32.Vec3{x, y, z}
	for _, c := range f.Corners {
		p := c.Pos.Add(origin)
		g.Positions = append(g.Positions, p[0], p[1], p[2])
		g.Normals = append(g.Normals, n[0], n[1], n[2])
		g.UVs = append(g.UVs,
			(tile+c.UV[0])*sw,
			1-(float32(f.UVRow)+1-c.UV[1])*sh)
	}
	for _, i := range quadIndices {
		g.Indices = append(g.Indices, base+i)
	}
}
