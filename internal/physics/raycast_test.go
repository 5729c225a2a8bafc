package physics_test

import (
	"math/rand/v2"
	"testing"

	"mini-voxel/internal/physics"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

func newGrid(t testing.TB) *world.Grid {
	t.Helper()
	g, err := world.NewGrid(50)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestCastRayStraightDown(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(5, 0, 5, 7)

	hit, ok := physics.CastRay(g, mgl32.Vec3{5, 5, 5}, mgl32.Vec3{5, -5, 5})
	if !ok {
		t.Fatal("expected hit, got miss")
	}
	if !hit.Position.ApproxEqual(mgl32.Vec3{5, 1, 5}) {
		t.Errorf("hit position %v, want (5,1,5)", hit.Position)
	}
	if hit.Normal != [3]int{0, 1, 0} {
		t.Errorf("normal %v, want (0,1,0)", hit.Normal)
	}
	if hit.Voxel != 7 {
		t.Errorf("voxel %d, want 7", hit.Voxel)
	}
	if hit.Cell != [3]int{5, 0, 5} {
		t.Errorf("cell %v, want (5,0,5)", hit.Cell)
	}
	if !mgl32.FloatEqual(hit.Distance, 4) {
		t.Errorf("distance %v, want 4", hit.Distance)
	}

	// the same ray shifted off the voxel column
	if _, ok := physics.CastRay(g, mgl32.Vec3{0, 5, 5}, mgl32.Vec3{0, -5, 5}); ok {
		t.Fatal("expected miss")
	}
}

func TestCastRayAlongX(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(5, 0, 0, 2)

	start := mgl32.Vec3{0.5, 0.5, 0.5}
	hit, ok := physics.CastRay(g, start, mgl32.Vec3{10.5, 0.5, 0.5})
	if !ok {
		t.Fatal("expected hit, got miss")
	}
	if hit.Cell != [3]int{5, 0, 0} || hit.Normal != [3]int{-1, 0, 0} {
		t.Errorf("got cell %v normal %v", hit.Cell, hit.Normal)
	}
	if hit.Distance < 4.49 || hit.Distance > 4.51 {
		t.Errorf("expected distance 4.5, got %f", hit.Distance)
	}

	// pointing away
	if _, ok := physics.CastRay(g, start, mgl32.Vec3{-10, 0.5, 0.5}); ok {
		t.Error("expected miss when casting away from the voxel")
	}
}

func TestCastRayStopsAtTarget(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(10, 0, 0, 1)
	start := mgl32.Vec3{0.5, 0.5, 0.5}

	if hit, ok := physics.CastRay(g, start, mgl32.Vec3{9.5, 0.5, 0.5}); ok {
		t.Fatalf("voxel beyond the target was reported: %+v", hit)
	}
	hit, ok := physics.CastRay(g, start, mgl32.Vec3{10.2, 0.5, 0.5})
	if !ok {
		t.Fatal("expected hit when the target lies inside the voxel")
	}
	if !mgl32.FloatEqual(hit.Position.X(), 10) {
		t.Errorf("hit x %v, want 10", hit.Position.X())
	}
}

func TestCastRayTieBreakPrefersX(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(1, 0, 0, 2)
	g.SetVoxel(0, 1, 0, 3)

	// passes exactly through the edge shared by (1,0,0) and (0,1,0)
	hit, ok := physics.CastRay(g, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{2.5, 2.5, 0.5})
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Voxel != 2 || hit.Normal != [3]int{-1, 0, 0} {
		t.Fatalf("got voxel %d normal %v, want voxel 2 normal (-1,0,0)", hit.Voxel, hit.Normal)
	}
}

func TestCastRayDiagonal(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(2, 2, 2, 4)

	hit, ok := physics.CastRay(g, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{3, 3, 3})
	if !ok {
		t.Fatal("expected hit at (2,2,2)")
	}
	if hit.Cell != [3]int{2, 2, 2} {
		t.Fatalf("got cell %v", hit.Cell)
	}
	// all three boundaries are crossed at once; Z is stepped last
	if hit.Normal != [3]int{0, 0, -1} {
		t.Errorf("normal %v, want (0,0,-1)", hit.Normal)
	}
}

func TestCastRayStartsInsideSolid(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(2, 2, 2, 9)

	hit, ok := physics.CastRay(g, mgl32.Vec3{2.5, 2.5, 2.5}, mgl32.Vec3{8, 2.5, 2.5})
	if !ok {
		t.Fatal("expected hit at the origin voxel")
	}
	if hit.Normal != [3]int{} || hit.Distance != 0 || hit.Voxel != 9 {
		t.Fatalf("got %+v", hit)
	}
}

func TestCastRayDegenerateSegment(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(1, 1, 1, 5)

	p := mgl32.Vec3{1.5, 1.5, 1.5}
	if hit, ok := physics.CastRay(g, p, p); !ok || hit.Voxel != 5 {
		t.Fatalf("zero-length ray inside a voxel: got %+v ok=%v", hit, ok)
	}
	q := mgl32.Vec3{3.5, 1.5, 1.5}
	if _, ok := physics.CastRay(g, q, q); ok {
		t.Fatal("zero-length ray in air should miss")
	}
}

func TestCastRayNegativeCoordinates(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(-3, -1, -3, 6)

	hit, ok := physics.CastRay(g, mgl32.Vec3{-2.5, 5, -2.5}, mgl32.Vec3{-2.5, -5, -2.5})
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Cell != [3]int{-3, -1, -3} {
		t.Errorf("cell %v, want (-3,-1,-3)", hit.Cell)
	}
	if !hit.Position.ApproxEqual(mgl32.Vec3{-2.5, 0, -2.5}) {
		t.Errorf("position %v", hit.Position)
	}
	if hit.Normal != [3]int{0, 1, 0} {
		t.Errorf("normal %v", hit.Normal)
	}
}

func TestCastRayAcrossCells(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(120, 3, -76, 1)

	hit, ok := physics.CastRay(g, mgl32.Vec3{-10.5, 3.5, -75.5}, mgl32.Vec3{200, 3.5, -75.5})
	if !ok {
		t.Fatal("expected hit two cells away")
	}
	if hit.Cell != [3]int{120, 3, -76} || hit.Normal != [3]int{-1, 0, 0} {
		t.Fatalf("unexpected cell %v", hit.Cell)
	}
}

func TestCastRayNeverReportsAir(t *testing.T) {
	g := newGrid(t)
	gen := world.NewNoiseGenerator(7, 6, 17)
	for x := -1; x <= 0; x++ {
		for z := -1; z <= 0; z++ {
			gen.Populate(g, world.CellCoord{X: x, Z: z})
		}
	}

	rng := rand.New(rand.NewPCG(1, 2))
	hits := 0
	for range 500 {
		origin := mgl32.Vec3{rng.Float32()*80 - 40, 20 + rng.Float32()*10, rng.Float32()*80 - 40}
		target := mgl32.Vec3{rng.Float32()*80 - 40, -2, rng.Float32()*80 - 40}
		hit, ok := physics.CastRay(g, origin, target)
		if !ok {
			continue
		}
		hits++
		if hit.Voxel == world.Air {
			t.Fatalf("reported an air voxel: %+v", hit)
		}
		if got := g.Voxel(hit.Cell[0], hit.Cell[1], hit.Cell[2]); got != hit.Voxel {
			t.Fatalf("hit voxel %d, grid has %d at %v", hit.Voxel, got, hit.Cell)
		}
		if hit.Distance > target.Sub(origin).Len()+1e-3 {
			t.Fatalf("hit beyond target: %v > %v", hit.Distance, target.Sub(origin).Len())
		}
		n := 0
		for _, c := range hit.Normal {
			if c != 0 {
				n++
			}
		}
		if n != 1 {
			t.Fatalf("expected a single-axis normal, got %v", hit.Normal)
		}
		// the voxel in front of the struck face is open air on the path
		front := physics.EditTarget(hit, true)
		if g.Voxel(front[0], front[1], front[2]) != world.Air {
			t.Fatalf("voxel in front of the hit face %v is solid", front)
		}
	}
	if hits == 0 {
		t.Fatal("no ray hit the terrain")
	}
}

func TestEditTarget(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(5, 0, 5, 7)
	hit, ok := physics.CastRay(g, mgl32.Vec3{5.5, 5, 5.5}, mgl32.Vec3{5.5, -5, 5.5})
	if !ok {
		t.Fatal("expected hit")
	}

	if got := physics.EditTarget(hit, false); got != [3]int{5, 0, 5} {
		t.Errorf("remove target %v", got)
	}
	if got := physics.EditTarget(hit, true); got != [3]int{5, 1, 5} {
		t.Errorf("place target %v", got)
	}

	// flooring the nudged position lands on the same voxels
	g.SetVoxelAt(physics.NudgedPosition(hit, true), 3)
	if g.Voxel(5, 1, 5) != 3 {
		t.Error("nudged place position did not land on (5,1,5)")
	}
	g.SetVoxelAt(physics.NudgedPosition(hit, false), world.Air)
	if g.Voxel(5, 0, 5) != world.Air {
		t.Error("nudged remove position did not land on (5,0,5)")
	}
}

func TestCaster(t *testing.T) {
	g := newGrid(t)
	g.SetVoxel(0, 0, 3, 1)
	c := physics.NewCaster(g)
	hit, ok := c.Cast(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0.5, 0.5, 8})
	if !ok || hit.Normal != [3]int{0, 0, -1} {
		t.Fatalf("got %+v ok=%v", hit, ok)
	}
}

func BenchmarkCastRay(b *testing.B) {
	g := newGrid(b)
	// Build a simple wall
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			g.SetVoxel(x, y, 12, 1)
		}
	}
	start := mgl32.Vec3{0.3, 8.2, 0.1}
	end := mgl32.Vec3{10.7, 6.1, 20}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = physics.CastRay(g, start, end)
	}
}
