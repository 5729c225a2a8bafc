package editor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"mini-voxel/internal/config"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshSink receives rebuilt cell geometry. Implementations keep one object
// per cell coordinate and replace its buffers on every call.
type MeshSink interface {
	UpdateCell(c world.CellCoord, geo *meshing.Geometry)
}

// Session ties a grid to a mesh builder and a sink: every edit rebuilds the
// cells whose mesh it can change and pushes the new geometry to the sink.
type Session struct {
	Grid    *world.Grid
	Builder *meshing.Builder
	Sink    MeshSink

	caster *physics.Caster

	mu       sync.Mutex
	uploaded map[world.CellCoord]uint64 // checksum of the last geometry sent to Sink
}

// NewSession creates an edit session over grid using the given atlas layout.
func NewSession(grid *world.Grid, atlas config.Atlas, sink MeshSink) (*Session, error) {
	if sink == nil {
		return nil, fmt.Errorf("editor.NewSession: nil sink: %w", config.ErrInvalidConfig)
	}
	b, err := meshing.NewBuilder(grid, atlas)
	if err != nil {
		return nil, fmt.Errorf("editor.NewSession: %w", err)
	}
	return &Session{
		Grid:     grid,
		Builder:  b,
		Sink:     sink,
		caster:   physics.NewCaster(grid),
		uploaded: make(map[world.CellCoord]uint64),
	}, nil
}

// SetVoxel writes code at (x, y, z) and refreshes every allocated cell whose
// mesh depends on that voxel. It returns the cells whose geometry was sent.
func (s *Session) SetVoxel(x, y, z int, code uint8) []world.CellCoord {
	defer profiling.Track("editor.SetVoxel")()
	s.Grid.SetVoxel(x, y, z, code)
	return s.rebuild(s.Grid.AffectedCells(x, y, z))
}

// RemoveVoxel clears (x, y, z) to air.
func (s *Session) RemoveVoxel(x, y, z int) []world.CellCoord {
	return s.SetVoxel(x, y, z, world.Air)
}

func (s *Session) rebuild(cells []world.CellCoord) []world.CellCoord {
	h := config.GetBlockHeight()
	var sent []world.CellCoord
	for _, c := range cells {
		gen, ok := s.Grid.DirtyGen(c)
		if !ok {
			continue
		}
		geo := s.Builder.BuildCellMesh(c.X, c.Y, c.Z, h)
		if s.upload(c, geo, gen) {
			sent = append(sent, c)
		}
	}
	return sent
}

// upload hands geo to the sink unless the sink already holds identical
// buffers, then marks the cell clean if it was not marked dirty again after
// gen was read.
func (s *Session) upload(c world.CellCoord, geo *meshing.Geometry, gen uint64) bool {
	defer s.Grid.MarkCleanAt(c, gen)
	sum := geo.Checksum()

	s.mu.Lock()
	prev, seen := s.uploaded[c]
	if (seen && prev == sum) || (!seen && geo.Empty()) {
		s.mu.Unlock()
		return false
	}
	s.uploaded[c] = sum
	s.mu.Unlock()

	s.Sink.UpdateCell(c, geo)
	return true
}

// RebuildDirty meshes every dirty cell in parallel and uploads the results in
// Y, Z, X order. It returns the number of cells sent to the sink.
func (s *Session) RebuildDirty(ctx context.Context) (int, error) {
	defer profiling.Track("editor.RebuildDirty")()
	dirty := s.Grid.DirtyCells()
	if len(dirty) == 0 {
		return 0, nil
	}
	gens := s.dirtyGens(dirty)

	built, err := meshing.BuildCells(ctx, s.Builder, dirty, config.GetBlockHeight(), config.GetMeshWorkers())
	sent := 0
	for _, c := range dirty {
		geo, ok := built[c]
		if !ok {
			continue
		}
		if s.upload(c, geo, gens[c]) {
			sent++
		}
	}
	if err != nil {
		return sent, fmt.Errorf("editor.RebuildDirty: %w", err)
	}
	log.Printf("rebuilt %d dirty cells, uploaded %d", len(built), sent)
	return sent, nil
}

// RebuildDirtyWith is RebuildDirty on a long-lived worker pool. The pool must
// have been created with s.Builder.
func (s *Session) RebuildDirtyWith(ctx context.Context, pool *meshing.WorkerPool) (int, error) {
	defer profiling.Track("editor.RebuildDirtyWith")()
	dirty := s.Grid.DirtyCells()
	if len(dirty) == 0 {
		return 0, nil
	}
	gens := s.dirtyGens(dirty)

	h := config.GetBlockHeight()
	results := make(chan meshing.MeshResult, len(dirty))
	for _, c := range dirty {
		if err := pool.SubmitJobBlocking(ctx, meshing.MeshJob{Coord: c, BlockHeight: h, ResultChan: results}); err != nil {
			return 0, fmt.Errorf("editor.RebuildDirtyWith: %w", err)
		}
	}

	built := make(map[world.CellCoord]*meshing.Geometry, len(dirty))
	for range dirty {
		select {
		case r := <-results:
			built[r.Coord] = r.Geometry
		case <-ctx.Done():
			return 0, fmt.Errorf("editor.RebuildDirtyWith: %w", ctx.Err())
		}
	}

	sent := 0
	for _, c := range dirty {
		geo, ok := built[c]
		if !ok {
			continue
		}
		if s.upload(c, geo, gens[c]) {
			sent++
		}
	}
	log.Printf("rebuilt %d dirty cells on %d workers, uploaded %d", len(built), pool.Workers(), sent)
	return sent, nil
}

func (s *Session) dirtyGens(cells []world.CellCoord) map[world.CellCoord]uint64 {
	gens := make(map[world.CellCoord]uint64, len(cells))
	for _, c := range cells {
		if gen, ok := s.Grid.DirtyGen(c); ok {
			gens[c] = gen
		}
	}
	return gens
}

// Forget drops upload state for cells that left the grid. Cells that were
// ever sent to the sink receive empty geometry so their meshes are cleared.
// It returns the cells that were cleared.
func (s *Session) Forget(cells []world.CellCoord) []world.CellCoord {
	var cleared []world.CellCoord
	for _, c := range cells {
		s.mu.Lock()
		_, seen := s.uploaded[c]
		delete(s.uploaded, c)
		s.mu.Unlock()
		if seen {
			s.Sink.UpdateCell(c, &meshing.Geometry{Cell: c})
			cleared = append(cleared, c)
		}
	}
	return cleared
}

// EvictFar evicts cells outside radius of (x, z) through st and clears their
// meshes in the sink. Survivors that lost a neighbour stay dirty for the next
// RebuildDirty. It returns the evicted cells.
func (s *Session) EvictFar(st *world.Streamer, x, z float32, radius int) []world.CellCoord {
	defer profiling.Track("editor.EvictFar")()
	removed := st.EvictFar(x, z, radius)
	cleared := s.Forget(removed)
	log.Printf("evicted %d cells, cleared %d meshes", len(removed), len(cleared))
	return removed
}

// Cast raycasts the segment origin..target against the session's grid.
func (s *Session) Cast(origin, target mgl32.Vec3) (physics.Hit, bool) {
	return s.caster.Cast(origin, target)
}

// Apply casts origin..target and edits the struck voxel: with place set, code
// is written into the empty voxel in front of the struck face; otherwise the
// struck voxel is cleared. A miss leaves the grid untouched.
func (s *Session) Apply(origin, target mgl32.Vec3, place bool, code uint8) (physics.Hit, bool) {
	hit, ok := s.Cast(origin, target)
	if !ok {
		return hit, false
	}
	p := physics.EditTarget(hit, place)
	if place {
		// started inside a solid voxel; there is no face to build against
		if hit.Normal == [3]int{} {
			return hit, false
		}
		s.SetVoxel(p[0], p[1], p[2], code)
	} else {
		s.RemoveVoxel(p[0], p[1], p[2])
	}
	return hit, true
}

// ApplyPick is Apply for a point on screen given in normalized device coordinates.
func (s *Session) ApplyPick(ndcX, ndcY float32, view, proj mgl32.Mat4, place bool, code uint8) (physics.Hit, bool, error) {
	origin, target, err := Pick(ndcX, ndcY, view, proj)
	if err != nil {
		return physics.Hit{}, false, err
	}
	hit, ok := s.Apply(origin, target, place, code)
	return hit, ok, nil
}
