package meshing

import "github.com/go-gl/mathgl/mgl32"

// Corner is one vertex of a face quad in unit-cube local space.
type Corner struct {
	Pos mgl32.Vec3
	UV  [2]float32
}

// Face describes one side of a voxel cube. Dir is the integer offset of the
// neighbour voxel that hides the face.
type Face struct {
	Dir     [3]int
	Corners [4]Corner
	// UVRow selects the atlas row: 0 sides, 1 bottom, 2 top.
	UVRow int
}

// Normal returns the outward unit normal of the face.
func (f *Face) Normal() mgl32.Vec3 {
	return mgl32.Vec3{float32(f.Dir[0]), float32(f.Dir[1]), float32(f.Dir[2])}
}

// Face indices into the table returned by Faces.
const (
	FaceLeft = iota
	FaceRight
	FaceBottom
	FaceTop
	FaceBack
	FaceFront
)

// quadIndices is the two-triangle winding applied to every emitted face.
var quadIndices = [6]uint32{0, 1, 2, 2, 1, 3}

var fullBlockFaces = [6]Face{
	FaceLeft: {
		Dir: [3]int{-1, 0, 0},
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{0, 1, 0}, UV: [2]float32{0, 1}},
			{Pos: mgl32.Vec3{0, 0, 0}, UV: [2]float32{0, 0}},
			{Pos: mgl32.Vec3{0, 1, 1}, UV: [2]float32{1, 1}},
			{Pos: mgl32.Vec3{0, 0, 1}, UV: [2]float32{1, 0}},
		},
	},
	FaceRight: {
		Dir: [3]int{1, 0, 0},
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{1, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: mgl32.Vec3{1, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: mgl32.Vec3{1, 1, 0}, UV: [2]float32{1, 1}},
			{Pos: mgl32.Vec3{1, 0, 0}, UV: [2]float32{1, 0}},
		},
	},
	FaceBottom: {
		Dir:   [3]int{0, -1, 0},
		UVRow: 1,
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{1, 0, 1}, UV: [2]float32{1, 0}},
			{Pos: mgl32.Vec3{0, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: mgl32.Vec3{1, 0, 0}, UV: [2]float32{1, 1}},
			{Pos: mgl32.Vec3{0, 0, 0}, UV: [2]float32{0, 1}},
		},
	},
	FaceTop: {
		Dir:   [3]int{0, 1, 0},
		UVRow: 2,
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{0, 1, 1}, UV: [2]float32{1, 1}},
			{Pos: mgl32.Vec3{1, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: mgl32.Vec3{0, 1, 0}, UV: [2]float32{1, 0}},
			{Pos: mgl32.Vec3{1, 1, 0}, UV: [2]float32{0, 0}},
		},
	},
	FaceBack: {
		Dir: [3]int{0, 0, -1},
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{1, 0, 0}, UV: [2]float32{0, 0}},
			{Pos: mgl32.Vec3{0, 0, 0}, UV: [2]float32{1, 0}},
			{Pos: mgl32.Vec3{1, 1, 0}, UV: [2]float32{0, 1}},
			{Pos: mgl32.Vec3{0, 1, 0}, UV: [2]float32{1, 1}},
		},
	},
	FaceFront: {
		Dir: [3]int{0, 0, 1},
		Corners: [4]Corner{
			{Pos: mgl32.Vec3{0, 0, 1}, UV: [2]float32{0, 0}},
			{Pos: mgl32.Vec3{1, 0, 1}, UV: [2]float32{1, 0}},
			{Pos: mgl32.Vec3{0, 1, 1}, UV: [2]float32{0, 1}},
			{Pos: mgl32.Vec3{1, 1, 1}, UV: [2]float32{1, 1}},
		},
	},
}

// normalizeHeight clamps a block height into (0, 1], defaulting to a full block.
func normalizeHeight(h float32) float32 {
	if h <= 0 || h > 1 {
		return 1
	}
	return h
}

// Faces returns the cube face table for blocks of the given height.
// A height of 1 is a full cube; 0.5 a slab. Upper corners move down to the
// height, and side faces sample the matching lower part of their tile.
func Faces(blockHeight float32) [6]Face {
	h := normalizeHeight(blockHeight)
	faces := fullBlockFaces
	if h == 1 {
		return faces
	}
	for i := range faces {
		side := faces[i].Dir[1] == 0
		for j := range faces[i].Corners {
			c := &faces[i].Corners[j]
			if c.Pos[1] == 1 {
				c.Pos[1] = h
				if side {
					c.UV[1] = h
				}
			}
		}
	}
	return faces
}
