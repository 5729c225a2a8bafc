package export

import (
	"fmt"
	"io"
	"sync"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Scene collects the latest geometry of every cell and writes it out as a
// glTF document with one node per cell, translated to the cell's world origin.
type Scene struct {
	cellSize int

	mu    sync.Mutex
	cells map[world.CellCoord]*cellEntry
	order []world.CellCoord // first upload order; node indices follow it
}

type cellEntry struct {
	geo     *meshing.Geometry
	updates int
}

// NewScene creates an empty scene for a grid with the given cell size.
func NewScene(cellSize int) *Scene {
	return &Scene{
		cellSize: cellSize,
		cells:    make(map[world.CellCoord]*cellEntry),
	}
}

// UpdateCell replaces the buffers held for cell c. The geometry is copied so
// the caller may reuse it.
func (s *Scene) UpdateCell(c world.CellCoord, geo *meshing.Geometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cells[c]
	if !ok {
		e = &cellEntry{}
		s.cells[c] = e
		s.order = append(s.order, c)
	}
	e.geo = geo.Clone()
	e.updates++
}

// Len returns the number of cells the scene has seen.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cells)
}

// Updates returns how many times cell c has been replaced.
func (s *Scene) Updates(c world.CellCoord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.cells[c]; ok {
		return e.updates
	}
	return 0
}

// Geometry returns the current buffers of cell c.
func (s *Scene) Geometry(c world.CellCoord) (*meshing.Geometry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.cells[c]
	if !ok {
		return nil, false
	}
	return e.geo, true
}

// Document builds a glTF document from the current cell buffers. Cells whose
// latest geometry is empty keep their node but carry no mesh.
func (s *Scene) Document() *gltf.Document {
	defer profiling.Track("export.Document")()
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := gltf.NewDocument()
	doc.Asset.Generator = "mini-voxel"

	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{Name: "atlas", PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}

	for _, c := range s.order {
		geo := s.cells[c].geo
		name := fmt.Sprintf("cell_%d_%d_%d", c.X, c.Y, c.Z)
		node := &gltf.Node{
			Name:        name,
			Translation: [3]float64{float64(c.X * s.cellSize), float64(c.Y * s.cellSize), float64(c.Z * s.cellSize)},
		}
		if !geo.Empty() {
			posAccessor := modeler.WritePosition(doc, vec3s(geo.Positions))
			normalAccessor := modeler.WriteNormal(doc, vec3s(geo.Normals))
			uvAccessor := modeler.WriteTextureCoord(doc, vec2s(geo.UVs))
			indicesAccessor := modeler.WriteIndices(doc, geo.Indices)
			prim := &gltf.Primitive{
				Attributes: gltf.PrimitiveAttributes{
					gltf.POSITION:   posAccessor,
					gltf.NORMAL:     normalAccessor,
					gltf.TEXCOORD_0: uvAccessor,
				},
				Indices:  gltf.Index(indicesAccessor),
				Material: gltf.Index(0),
			}
			doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{prim}})
			node.Mesh = gltf.Index(len(doc.Meshes) - 1)
		}
		doc.Nodes = append(doc.Nodes, node)
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc
}

// SaveBinary writes the scene as a .glb file.
func (s *Scene) SaveBinary(path string) error {
	if err := gltf.SaveBinary(s.Document(), path); err != nil {
		return fmt.Errorf("export.SaveBinary %s: %w", path, err)
	}
	return nil
}

// Encode writes the scene as binary glTF to w.
func (s *Scene) Encode(w io.Writer) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(s.Document()); err != nil {
		return fmt.Errorf("export.Encode: %w", err)
	}
	return nil
}

func vec3s(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out
}

func vec2s(flat []float32) [][2]float32 {
	out := make([][2]float32, len(flat)/2)
	for i := range out {
		out[i] = [2]float32{flat[i*2], flat[i*2+1]}
	}
	return out
}
