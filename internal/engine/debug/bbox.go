// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// BBoxEdgeCount is the number of edges of a box wireframe.
const BBoxEdgeCount = 12

// DefaultBBoxPadding is the default padding, as a fraction of the box
// diagonal, around a bounds overlay.
const DefaultBBoxPadding = 0.01

// bboxEdges pairs the indices of Box3.Corners.
var bboxEdges = [BBoxEdgeCount][2]uint32{
	// Bottom face
	{0, 1}, {1, 5}, {5, 4}, {4, 0},
	// Top face
	{2, 3}, {3, 7}, {7, 6}, {6, 2},
	// Vertical edges
	{0, 2}, {1, 3}, {5, 7}, {4, 6},
}

// BBoxWireframe returns line geometry for the edges of box grown by padding
// on all sides. An empty box yields empty geometry.
func BBoxWireframe(box math.Box3, padding float32) *geom.Geometry {
	g := &geom.Geometry{Primitive: geom.Lines}
	if box.IsEmpty() {
		return g
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	box = math.Box3{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}

	for _, c := range box.Corners() {
		g.Positions = append(g.Positions, c.X, c.Y, c.Z)
	}
	for _, e := range bboxEdges {
		g.Indices = append(g.Indices, e[0], e[1])
	}
	return g
}

// BBoxNode wraps BBoxWireframe in an unclipped overlay node. The padding is
// DefaultBBoxPadding of the box diagonal.
func BBoxNode(name string, box math.Box3, color [3]float32) *scene.Node {
	m := scene.NewMaterial(name, color)
	m.ClipMode = scene.ClipNone
	m.DepthWrite = false
	padding := float32(0)
	if !box.IsEmpty() {
		padding = box.Size().Length() * DefaultBBoxPadding
	}
	return scene.NewNode(name, BBoxWireframe(box, padding), m)
}
