package editor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Pick turns a screen point in normalized device coordinates (-1..1 on both
// axes) into a world space segment running from the near plane to the far
// plane of proj.
func Pick(ndcX, ndcY float32, view, proj mgl32.Mat4) (origin, target mgl32.Vec3, err error) {
	// a 2x2 viewport at the origin maps window coordinates to NDC by subtracting one
	near := mgl32.Vec3{ndcX + 1, ndcY + 1, 0}
	far := mgl32.Vec3{ndcX + 1, ndcY + 1, 1}
	origin, err = mgl32.UnProject(near, view, proj, 0, 0, 2, 2)
	if err != nil {
		return origin, target, fmt.Errorf("editor.Pick: %w", err)
	}
	target, err = mgl32.UnProject(far, view, proj, 0, 0, 2, 2)
	if err != nil {
		return origin, target, fmt.Errorf("editor.Pick: %w", err)
	}
	return origin, target, nil
}
