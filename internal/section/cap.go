package section

import (
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// CapNodes draw the filled cross-section of one plane.
type CapNodes struct {
	// Stencil holds a back-face and a front-face pass per solid.
	Stencil []*scene.Node
	Cap     *scene.Node
}

// All returns every node of the cap.
func (c CapNodes) All() []*scene.Node {
	out := make([]*scene.Node, 0, len(c.Stencil)+1)
	out = append(out, c.Stencil...)
	return append(out, c.Cap)
}

// BuildCap creates the stencil passes and the cap quad for plane h.
//
// Each solid is drawn twice into the stencil buffer only, clipped by h alone:
// back faces increment and front faces decrement, so pixels where the cut
// exposes the interior end up non-zero. The cap quad then fills those pixels.
// The caller positions the cap, assigns render orders and sets the cap's
// clip list to the other active planes.
func BuildCap(h Handle, solids []*scene.Node, size float32, color [3]float32) CapNodes {
	var c CapNodes
	for _, solid := range solids {
		back := stencilPass(solid, h, scene.BackSide, scene.IncrementWrap)
		front := stencilPass(solid, h, scene.FrontSide, scene.DecrementWrap)
		c.Stencil = append(c.Stencil, back, front)
	}

	m := scene.NewMaterial("cap", color)
	m.Side = scene.DoubleSide
	m.ClipMode = scene.ClipCustom
	m.Stencil = scene.Stencil{
		Write: true,
		Func:  scene.NotEqual,
		Ref:   0,
		Fail:  scene.Replace,
		ZFail: scene.Replace,
		ZPass: scene.Replace,
	}
	c.Cap = scene.NewNode("cap", geom.PlaneQuad(size, size), m)
	c.Cap.ClearStencilAfter = true
	return c
}

func stencilPass(solid *scene.Node, h Handle, side scene.Side, op scene.StencilOp) *scene.Node {
	m := scene.NewMaterial("stencil", [3]float32{})
	m.Side = side
	m.DepthTest = false
	m.DepthWrite = false
	m.ColorWrite = false
	m.ClipMode = scene.ClipCustom
	m.ClipPlanes = []scene.ClipRef{h}
	m.Stencil = scene.Stencil{
		Write: true,
		Func:  scene.Always,
		Fail:  op,
		ZFail: op,
		ZPass: op,
	}
	n := scene.NewNode(solid.Name+"/stencil", solid.Geometry, m)
	n.Transform = solid.Transform
	return n
}

// placeCap puts the cap at pos facing away from the kept half-space.
func placeCap(cap *scene.Node, pos, normal math.Vec3) {
	cap.Transform = math.ObjectLookAt(pos, pos.Sub(normal), math.UnitY)
}
