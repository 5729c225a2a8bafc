package physics

import (
	"math"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Hit stores the result of a successful raycast
type Hit struct {
	// Position is where the ray enters the struck voxel.
	Position mgl32.Vec3
	// Normal is the struck face: one axis ±1, or all zero when the ray
	// started inside a solid voxel.
	Normal [3]int
	Voxel  uint8
	// Cell is the integer coordinate of the struck voxel.
	Cell     [3]int
	Distance float32
}

// CastRay walks the voxel grid from origin toward target one voxel boundary at
// a time and returns the first solid voxel within the segment. Voxels beyond
// target are never reported.
//
// When the ray reaches boundaries on several axes at the same t, X is stepped
// before Y and Y before Z.
func CastRay(r world.Reader, origin, target mgl32.Vec3) (Hit, bool) {
	defer profiling.Track("physics.CastRay")()

	ox, oy, oz := float64(origin.X()), float64(origin.Y()), float64(origin.Z())
	dx := float64(target.X()) - ox
	dy := float64(target.Y()) - oy
	dz := float64(target.Z()) - oz
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)

	ix := int(math.Floor(ox))
	iy := int(math.Floor(oy))
	iz := int(math.Floor(oz))

	if length == 0 {
		if code := r.Voxel(ix, iy, iz); code != world.Air {
			return Hit{Position: origin, Voxel: code, Cell: [3]int{ix, iy, iz}}, true
		}
		return Hit{}, false
	}
	dx /= length
	dy /= length
	dz /= length

	stepX, txDelta, txMax := axisSetup(ox, dx, ix)
	stepY, tyDelta, tyMax := axisSetup(oy, dy, iy)
	stepZ, tzDelta, tzMax := axisSetup(oz, dz, iz)

	t := 0.0
	stepped := -1
	for t <= length {
		if code := r.Voxel(ix, iy, iz); code != world.Air {
			hit := Hit{
				Position: mgl32.Vec3{float32(ox + t*dx), float32(oy + t*dy), float32(oz + t*dz)},
				Voxel:    code,
				Cell:     [3]int{ix, iy, iz},
				Distance: float32(t),
			}
			switch stepped {
			case 0:
				hit.Normal[0] = -stepX
			case 1:
				hit.Normal[1] = -stepY
			case 2:
				hit.Normal[2] = -stepZ
			}
			return hit, true
		}

		// advance to the nearest voxel boundary
		switch {
		case txMax <= tyMax && txMax <= tzMax:
			ix += stepX
			t = txMax
			txMax += txDelta
			stepped = 0
		case tyMax <= tzMax:
			iy += stepY
			t = tyMax
			tyMax += tyDelta
			stepped = 1
		default:
			iz += stepZ
			t = tzMax
			tzMax += tzDelta
			stepped = 2
		}
	}
	return Hit{}, false
}

// axisSetup returns the step sign, the t needed to cross one voxel, and the t
// of the first boundary crossing along one axis. A zero direction component
// never crosses a boundary.
func axisSetup(origin, dir float64, cell int) (step int, tDelta, tMax float64) {
	step = -1
	if dir > 0 {
		step = 1
	}
	if dir == 0 {
		return step, math.Inf(1), math.Inf(1)
	}
	tDelta = math.Abs(1 / dir)
	dist := origin - float64(cell)
	if step > 0 {
		dist = float64(cell) + 1 - origin
	}
	return step, tDelta, tDelta * dist
}

// EditTarget returns the voxel an edit should touch: the struck voxel itself
// when removing, or the empty voxel in front of the struck face when placing.
func EditTarget(hit Hit, place bool) [3]int {
	if !place {
		return hit.Cell
	}
	return [3]int{
		hit.Cell[0] + hit.Normal[0],
		hit.Cell[1] + hit.Normal[1],
		hit.Cell[2] + hit.Normal[2],
	}
}

// NudgedPosition moves the hit position half a voxel off the struck face:
// outward when placing, inward when removing. Flooring the result gives the
// same voxel as EditTarget for hits on a face.
func NudgedPosition(hit Hit, place bool) mgl32.Vec3 {
	s := float32(-0.5)
	if place {
		s = 0.5
	}
	return hit.Position.Add(mgl32.Vec3{
		float32(hit.Normal[0]) * s,
		float32(hit.Normal[1]) * s,
		float32(hit.Normal[2]) * s,
	})
}

// Caster runs raycasts against a grid under its read lock.
type Caster struct {
	grid *world.Grid
}

// NewCaster creates a caster bound to a grid.
func NewCaster(grid *world.Grid) *Caster {
	return &Caster{grid: grid}
}

// Cast is CastRay against the bound grid with a consistent snapshot.
func (c *Caster) Cast(origin, target mgl32.Vec3) (hit Hit, ok bool) {
	c.grid.View(func(r world.Reader) {
		hit, ok = CastRay(r, origin, target)
	})
	return hit, ok
}
