package section

import (
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// newHelper builds the square outline that marks a plane in the viewport.
// It is never clipped.
func newHelper(name string, size float32, color [3]float32) *scene.Node {
	m := scene.NewMaterial("helper", color)
	m.ClipMode = scene.ClipNone
	m.DepthWrite = false
	return scene.NewNode(name+"/helper", geom.SquareOutline(size), m)
}

// placeHelper orients the helper along the plane normal, reversed when the
// plane is inverted.
func placeHelper(helper *scene.Node, pos, normal math.Vec3, inverted bool) {
	dir := normal
	if inverted {
		dir = dir.Negate()
	}
	helper.Transform = math.ObjectLookAt(pos, pos.Add(dir), math.UnitY)
}
