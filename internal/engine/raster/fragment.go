package raster

import (
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/math"
)

// fragmentState carries the per-draw state through the per-pixel tests.
type fragmentState struct {
	r     *Rasterizer
	node  *scene.Node
	mat   *scene.Material
	clip  []math.Plane
	eye   math.Vec3
	color [3]float32
	shade float64
}

// fragment runs the clip, stencil and depth tests for one pixel and writes
// whatever the material allows.
func (f *fragmentState) fragment(x, y int, z float64, world [3]float64) {
	if z < 0 || z > 1 {
		return
	}
	for _, p := range f.clip {
		d := float64(p.Normal.X)*world[0] + float64(p.Normal.Y)*world[1] + float64(p.Normal.Z)*world[2] + float64(p.Constant)
		if d < 0 {
			return
		}
	}

	r := f.r
	i := y*r.width + x
	st := f.mat.Stencil

	if st.Write && !stencilPasses(st.Func, st.Ref, r.stencil[i]) {
		r.stencil[i] = applyOp(st.Fail, st.Ref, r.stencil[i])
		return
	}
	if f.mat.DepthTest && z > r.depth[i] {
		if st.Write {
			r.stencil[i] = applyOp(st.ZFail, st.Ref, r.stencil[i])
		}
		return
	}
	if st.Write {
		r.stencil[i] = applyOp(st.ZPass, st.Ref, r.stencil[i])
	}
	if f.mat.DepthWrite {
		r.depth[i] = z
	}
	if f.mat.ColorWrite {
		f.writeColor(i)
	}
	r.stats.Fragments[f.node]++
}

func (f *fragmentState) writeColor(i int) {
	pix := f.r.img.Pix[i*4 : i*4+4]
	a := 1.0
	if f.mat.Transparent {
		a = float64(f.mat.Opacity)
	}
	for k := 0; k < 3; k++ {
		src := float64(f.color[k]) * f.shade * 255
		dst := float64(pix[k])
		pix[k] = uint8(min(255, src*a+dst*(1-a)+0.5))
	}
	pix[3] = 0xff
}

func stencilPasses(fn scene.CompareFunc, ref, v uint8) bool {
	switch fn {
	case scene.Never:
		return false
	case scene.Equal:
		return v == ref
	case scene.NotEqual:
		return v != ref
	default:
		return true
	}
}

func applyOp(op scene.StencilOp, ref, v uint8) uint8 {
	switch op {
	case scene.Zero:
		return 0
	case scene.Replace:
		return ref
	case scene.IncrementWrap:
		return v + 1
	case scene.DecrementWrap:
		return v - 1
	default:
		return v
	}
}
