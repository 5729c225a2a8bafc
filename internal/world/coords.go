package world

import "math"

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// mod is the Euclidean remainder, always in [0, b) for b > 0.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// floorCoord truncates a float world coordinate toward the voxel grid.
func floorCoord(v float32) int {
	return int(math.Floor(float64(v)))
}
