package scene

// Side selects which triangle faces a material rasterizes.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// CompareFunc is a stencil comparison.
type CompareFunc int

const (
	Always CompareFunc = iota
	Never
	Equal
	NotEqual
)

// StencilOp is the action applied to the stencil buffer.
type StencilOp int

const (
	Keep StencilOp = iota
	Zero
	Replace
	IncrementWrap
	DecrementWrap
)

// Stencil is the per-material stencil state. Fail applies when the stencil
// test fails, ZFail when the depth test fails and ZPass when both pass.
type Stencil struct {
	Write bool
	Func  CompareFunc
	Ref   uint8
	Fail  StencilOp
	ZFail StencilOp
	ZPass StencilOp
}

// ClipMode says where a material's clipping planes come from.
type ClipMode int

const (
	// ClipNone ignores every section plane.
	ClipNone ClipMode = iota
	// ClipFollowAll materials are clipped by every active section plane; the
	// plane manager rewrites their ClipPlanes whenever the plane list changes.
	ClipFollowAll
	// ClipCustom materials keep the exact list they were given.
	ClipCustom
)

// Material holds render state for a node.
type Material struct {
	Name          string
	Color         [3]float32
	Opacity       float32
	Transparent   bool
	Side          Side
	DepthTest     bool
	DepthWrite    bool
	ColorWrite    bool
	PolygonOffset bool
	Stencil       Stencil
	ClipMode      ClipMode
	ClipPlanes    []ClipRef
}

// NewMaterial returns an opaque, depth-tested, front-face material.
func NewMaterial(name string, color [3]float32) *Material {
	return &Material{
		Name:       name,
		Color:      color,
		Opacity:    1,
		Side:       FrontSide,
		DepthTest:  true,
		DepthWrite: true,
		ColorWrite: true,
	}
}

// Clone returns a deep copy of m.
func (m *Material) Clone() *Material {
	c := *m
	c.ClipPlanes = append([]ClipRef(nil), m.ClipPlanes...)
	return &c
}

// SetTransparent switches between translucent and opaque rendering.
func (m *Material) SetTransparent(on bool, opacity float32) {
	if on {
		m.Opacity = opacity
		m.Transparent = true
		return
	}
	m.Opacity = 1
	m.Transparent = false
}
