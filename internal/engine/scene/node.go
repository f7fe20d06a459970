// Package scene is the retained scene graph shared by the section engine and
// the render backends: drawable nodes, their materials and the draw order.
package scene

import (
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// Node is one drawable: geometry, material and world transform.
type Node struct {
	Name        string
	Geometry    *geom.Geometry
	Material    *Material
	Transform   math.Mat4
	RenderOrder float64
	Visible     bool

	// ClearStencilAfter asks the renderer to clear the stencil buffer right
	// after this node is drawn.
	ClearStencilAfter bool

	seq uint64
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string, g *geom.Geometry, m *Material) *Node {
	return &Node{
		Name:      name,
		Geometry:  g,
		Material:  m,
		Transform: math.Identity(),
		Visible:   true,
	}
}
