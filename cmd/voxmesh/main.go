package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"mini-voxel/internal/config"
	"mini-voxel/internal/editor"
	"mini-voxel/internal/export"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

// pick is one screen edit: "remove@x,y" or "place:code@x,y" with x and y in NDC.
type pick struct {
	place bool
	code  uint8
	ndcX  float32
	ndcY  float32
}

type pickList []pick

func (p *pickList) String() string {
	return fmt.Sprint(len(*p))
}

func (p *pickList) Set(s string) error {
	action, at, ok := strings.Cut(s, "@")
	if !ok {
		return fmt.Errorf("pick %q: missing @x,y", s)
	}
	var pk pick
	switch {
	case action == "remove":
	case strings.HasPrefix(action, "place:"):
		code, err := strconv.ParseUint(strings.TrimPrefix(action, "place:"), 10, 8)
		if err != nil || code == 0 {
			return fmt.Errorf("pick %q: bad voxel code", s)
		}
		pk.place, pk.code = true, uint8(code)
	default:
		return fmt.Errorf("pick %q: action must be remove or place:<code>", s)
	}
	xs, ys, ok := strings.Cut(at, ",")
	if !ok {
		return fmt.Errorf("pick %q: position must be x,y", s)
	}
	x, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return fmt.Errorf("pick %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(ys, 32)
	if err != nil {
		return fmt.Errorf("pick %q: %w", s, err)
	}
	pk.ndcX, pk.ndcY = float32(x), float32(y)
	*p = append(*p, pk)
	return nil
}

func main() {
	defer closer.Close()

	var (
		cellSize  = flag.Int("cell", config.DefaultCellSize, "Cell edge length in voxels.")
		atlasPath = flag.String("atlas", "", "Texture atlas image to read dimensions from (default: built-in layout).")
		tileSize  = flag.Int("tile", config.DefaultTileSize, "Atlas tile size in pixels.")
		height    = flag.Float64("height", float64(config.FullBlockHeight), "Block height, 1 for full blocks or 0.5 for slabs.")
		seed      = flag.Int64("seed", config.GetSeed(), "Terrain seed.")
		ground    = flag.Int("ground", config.GetFlatHeight(), "Base terrain height.")
		noise     = flag.Bool("noise", false, "Use noise terrain instead of flat ground.")
		radius    = flag.Int("radius", 1, "Generate cell columns within this many cells of the origin.")
		workers   = flag.Int("workers", config.GetMeshWorkers(), "Mesh worker goroutines.")
		batch     = flag.Bool("batch", false, "Mesh with a per-call batch pool instead of the long-lived worker pool.")
		eyeHeight = flag.Float64("eye", 64, "Height of the top-down pick camera.")
		out       = flag.String("out", "world.glb", "Output .glb path.")
		picks     pickList
	)
	flag.Var(&picks, "pick", "Edit through the top-down camera: remove@x,y or place:<code>@x,y (repeatable).")
	flag.Parse()

	config.SetBlockHeight(float32(*height))
	config.SetSeed(*seed)
	config.SetFlatHeight(*ground)
	config.SetUseNoise(*noise)
	config.SetMeshWorkers(*workers)

	atlas := config.DefaultAtlas()
	if *atlasPath != "" {
		a, err := config.ReadAtlas(*atlasPath, *tileSize)
		if err != nil {
			closer.Fatalln(err)
		}
		atlas = a
	}

	grid, err := world.NewGrid(*cellSize)
	if err != nil {
		closer.Fatalln(err)
	}
	streamer := world.NewStreamer(grid, world.NewConfiguredGenerator())
	n := streamer.PopulateAround(0, 0, *radius)
	log.Printf("generated %d cells of %d^3 voxels in %d columns", n, *cellSize, streamer.Columns())

	scene := export.NewScene(*cellSize)
	session, err := editor.NewSession(grid, atlas, scene)
	if err != nil {
		closer.Fatalln(err)
	}

	ctx := context.Background()
	var sent int
	if *batch {
		sent, err = session.RebuildDirty(ctx)
	} else {
		pool := meshing.NewWorkerPool(session.Builder, config.GetMeshWorkers(), 64)
		closer.Bind(pool.Shutdown)
		sent, err = session.RebuildDirtyWith(ctx, pool)
	}
	if err != nil {
		closer.Fatalln(err)
	}
	log.Printf("meshed %d cells", sent)

	eye := mgl32.Vec3{0.5, float32(*eyeHeight), 0.5}
	view := mgl32.LookAtV(eye, mgl32.Vec3{0.5, 0, 0.5}, mgl32.Vec3{0, 0, -1})
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, float32(*eyeHeight)*4)
	for _, p := range picks {
		hit, ok, err := session.ApplyPick(p.ndcX, p.ndcY, view, proj, p.place, p.code)
		if err != nil {
			closer.Fatalln(err)
		}
		if !ok {
			log.Printf("pick (%.2f, %.2f): nothing to edit", p.ndcX, p.ndcY)
			continue
		}
		log.Printf("pick (%.2f, %.2f): hit voxel %d at %v face %v", p.ndcX, p.ndcY, hit.Voxel, hit.Cell, hit.Normal)
	}

	if err := scene.SaveBinary(*out); err != nil {
		closer.Fatalln(err)
	}
	log.Printf("wrote %d cells to %s", scene.Len(), *out)
	log.Printf("Top tasks: %s", profiling.TopN(6))
}
