package meshing

import (
	"context"
	"sync"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/alitto/pond/v2"
)

// BuildCells meshes many cells in parallel and returns one batch per cell.
// Cells not started before ctx is cancelled are skipped and ctx.Err() is returned.
func BuildCells(ctx context.Context, b *Builder, coords []world.CellCoord, blockHeight float32, workers int) (map[world.CellCoord]*Geometry, error) {
	defer profiling.Track("meshing.BuildCells")()

	out := make(map[world.CellCoord]*Geometry, len(coords))
	if len(coords) == 0 {
		return out, ctx.Err()
	}

	pool := pond.NewPool(max(workers, 1))
	defer pool.StopAndWait()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, c := range coords {
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			geo := b.BuildCellMesh(c.X, c.Y, c.Z, blockHeight)
			mu.Lock()
			out[c] = geo
			mu.Unlock()
		})
	}
	wg.Wait()

	return out, ctx.Err()
}
