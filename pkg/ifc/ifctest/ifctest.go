// Package ifctest builds small in-memory models for tests.
package ifctest

import (
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/ifc"
	"github.com/Faultbox/sectionview/pkg/math"
)

// Row returns a model with one unit box per id laid out along +X, two units
// apart, starting at the origin. Box i spans [2i, 2i+1] on X and [0, 1] on Y and Z.
func Row(ids ...ifc.SemanticID) *ifc.Model {
	mesh := &geom.Geometry{Primitive: geom.Triangles}
	for i, id := range ids {
		x := float32(2 * i)
		box := geom.Box(math.Vec3{X: x}, math.Vec3{X: x + 1, Y: 1, Z: 1})
		Append(mesh, box, id)
	}
	return &ifc.Model{
		Name:  "row",
		Mesh:  mesh,
		Types: make(map[ifc.Category][]ifc.SemanticID),
	}
}

// Range returns the ids first..last inclusive.
func Range(first, last ifc.SemanticID) []ifc.SemanticID {
	var out []ifc.SemanticID
	for id := first; id <= last; id++ {
		out = append(out, id)
	}
	return out
}

// Append copies part into dst, tagging every copied vertex with id.
func Append(dst, part *geom.Geometry, id ifc.SemanticID) {
	base := uint32(dst.VertexCount())
	dst.Positions = append(dst.Positions, part.Positions...)
	for i := 0; i < part.VertexCount(); i++ {
		dst.IDs = append(dst.IDs, uint32(id))
	}
	for _, idx := range part.Indices {
		dst.Indices = append(dst.Indices, base+idx)
	}
}
