// Package raster is a CPU render backend. It implements the same depth,
// stencil, culling and clip-plane state as the OpenGL backend so that cross
// sections can be rendered and inspected without a GPU.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	gomath "math"
	"os"

	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// Stats counts the work done by the last Render.
type Stats struct {
	Draws     int
	Triangles int
	// Fragments is the number of fragments each node wrote, after clipping,
	// stencil and depth tests.
	Fragments map[*scene.Node]int
}

// Rasterizer renders a scene into an RGBA image with a float depth buffer
// and an 8-bit stencil buffer.
type Rasterizer struct {
	Background color.RGBA

	width, height int
	img           *image.RGBA
	depth         []float64
	stencil       []uint8
	stats         Stats
}

// New creates a rasterizer with a width x height target.
func New(width, height int) (*Rasterizer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	return &Rasterizer{
		Background: color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff},
		width:      width,
		height:     height,
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:      make([]float64, width*height),
		stencil:    make([]uint8, width*height),
	}, nil
}

// Size returns the target dimensions.
func (r *Rasterizer) Size() (int, int) {
	return r.width, r.height
}

// Image returns the color target. It is overwritten by the next Render.
func (r *Rasterizer) Image() *image.RGBA {
	return r.img
}

// StencilAt returns the stencil value of a pixel.
func (r *Rasterizer) StencilAt(x, y int) uint8 {
	return r.stencil[y*r.width+x]
}

// Stats returns counters for the last frame.
func (r *Rasterizer) Stats() Stats {
	return r.stats
}

// ClearStencil zeroes the stencil buffer.
func (r *Rasterizer) ClearStencil() {
	clear(r.stencil)
}

func (r *Rasterizer) clear() {
	for i := 0; i < len(r.img.Pix); i += 4 {
		r.img.Pix[i+0] = r.Background.R
		r.img.Pix[i+1] = r.Background.G
		r.img.Pix[i+2] = r.Background.B
		r.img.Pix[i+3] = r.Background.A
	}
	for i := range r.depth {
		r.depth[i] = 1
	}
	r.ClearStencil()
	r.stats = Stats{Fragments: make(map[*scene.Node]int)}
}

// Render draws one frame: clear, then every command of the scene's draw list.
func (r *Rasterizer) Render(sc *scene.Scene, cam camera.Camera, clip scene.ClipTable) error {
	r.clear()

	aspect := float32(r.width) / float32(r.height)
	viewProj := cam.ProjectionMatrix(aspect).Mul(cam.ViewMatrix())
	eye := cam.Position()

	for _, cmd := range scene.BuildDrawList(sc, clip) {
		switch cmd.Kind {
		case scene.CmdClearStencil:
			r.ClearStencil()
		case scene.CmdDraw:
			r.draw(cmd, viewProj, eye)
		}
	}
	return nil
}

// WritePNG encodes the color target.
func (r *Rasterizer) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG writes the color target to path.
func (r *Rasterizer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	if err := r.WritePNG(f); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}

// vertex is a transformed vertex: clip-space position plus world position.
type vertex struct {
	clip  [4]float64
	world [3]float64
}

// screen is a vertex after the perspective divide and viewport transform.
type screen struct {
	x, y, z float64
	invW    float64
	world   [3]float64
}

func (r *Rasterizer) draw(cmd scene.Command, viewProj math.Mat4, eye math.Vec3) {
	n := cmd.Node
	g := n.Geometry
	mvp := viewProj.Mul(n.Transform)

	verts := make([]vertex, g.VertexCount())
	for i := range verts {
		p := g.Position(uint32(i))
		c := mvp.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
		w := n.Transform.TransformVec3(p)
		verts[i] = vertex{
			clip:  [4]float64{float64(c[0]), float64(c[1]), float64(c[2]), float64(c[3])},
			world: [3]float64{float64(w.X), float64(w.Y), float64(w.Z)},
		}
	}

	f := fragmentState{
		r:     r,
		node:  n,
		mat:   n.Material,
		clip:  cmd.Clip,
		eye:   eye,
		color: n.Material.Color,
	}
	r.stats.Draws++

	switch g.Primitive {
	case geom.Lines:
		for i := 0; i+1 < len(g.Indices); i += 2 {
			r.line(&f, verts[g.Indices[i]], verts[g.Indices[i+1]])
		}
	default:
		for i := 0; i+2 < len(g.Indices); i += 3 {
			a, b, c := verts[g.Indices[i]], verts[g.Indices[i+1]], verts[g.Indices[i+2]]
			for _, tri := range clipNear([]vertex{a, b, c}) {
				r.triangle(&f, tri)
			}
		}
	}
}

// clipNear clips a triangle against the near plane (z >= -w) and returns a
// triangle fan.
func clipNear(poly []vertex) [][3]vertex {
	inside := func(v vertex) float64 { return v.clip[2] + v.clip[3] }

	var out []vertex
	for i := range poly {
		cur, next := poly[i], poly[(i+1)%len(poly)]
		dc, dn := inside(cur), inside(next)
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			out = append(out, lerpVertex(cur, next, t))
		}
	}
	if len(out) < 3 {
		return nil
	}
	tris := make([][3]vertex, 0, len(out)-2)
	for i := 1; i+1 < len(out); i++ {
		tris = append(tris, [3]vertex{out[0], out[i], out[i+1]})
	}
	return tris
}

// clipSegment clips a line segment against the near plane.
func clipSegment(a, b vertex) (vertex, vertex, bool) {
	da, db := a.clip[2]+a.clip[3], b.clip[2]+b.clip[3]
	switch {
	case da < 0 && db < 0:
		return a, b, false
	case da < 0:
		a = lerpVertex(a, b, da/(da-db))
	case db < 0:
		b = lerpVertex(a, b, da/(da-db))
	}
	return a, b, true
}

func lerpVertex(a, b vertex, t float64) vertex {
	var v vertex
	for i := range v.clip {
		v.clip[i] = a.clip[i] + (b.clip[i]-a.clip[i])*t
	}
	for i := range v.world {
		v.world[i] = a.world[i] + (b.world[i]-a.world[i])*t
	}
	return v
}

func (r *Rasterizer) project(v vertex) screen {
	invW := 1 / v.clip[3]
	nx, ny, nz := v.clip[0]*invW, v.clip[1]*invW, v.clip[2]*invW
	return screen{
		x:     (nx + 1) / 2 * float64(r.width),
		y:     (1 - ny) / 2 * float64(r.height),
		z:     nz*0.5 + 0.5,
		invW:  invW,
		world: v.world,
	}
}

func (r *Rasterizer) triangle(f *fragmentState, tri [3]vertex) {
	s0, s1, s2 := r.project(tri[0]), r.project(tri[1]), r.project(tri[2])

	// Screen y grows downward, so counter-clockwise triangles have a
	// negative signed area here.
	area := edge(s0, s1, s2.x, s2.y)
	if area == 0 {
		return
	}
	front := area < 0
	switch f.mat.Side {
	case scene.FrontSide:
		if !front {
			return
		}
	case scene.BackSide:
		if front {
			return
		}
	}
	if area < 0 {
		s1, s2 = s2, s1
		area = -area
	}
	r.stats.Triangles++

	f.shade = shadeFactor(tri, f.eye)

	minX := max(0, int(gomath.Floor(min(s0.x, s1.x, s2.x))))
	maxX := min(r.width-1, int(gomath.Ceil(max(s0.x, s1.x, s2.x))))
	minY := max(0, int(gomath.Floor(min(s0.y, s1.y, s2.y))))
	maxY := min(r.height-1, int(gomath.Ceil(max(s0.y, s1.y, s2.y))))

	for py := minY; py <= maxY; py++ {
		y := float64(py) + 0.5
		for px := minX; px <= maxX; px++ {
			x := float64(px) + 0.5
			w0 := edge(s1, s2, x, y)
			w1 := edge(s2, s0, x, y)
			w2 := edge(s0, s1, x, y)
			if !covers(w0, s1, s2) || !covers(w1, s2, s0) || !covers(w2, s0, s1) {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area

			z := b0*s0.z + b1*s1.z + b2*s2.z
			pw := b0*s0.invW + b1*s1.invW + b2*s2.invW
			var world [3]float64
			for k := range world {
				world[k] = (b0*s0.world[k]*s0.invW + b1*s1.world[k]*s1.invW + b2*s2.world[k]*s2.invW) / pw
			}
			f.fragment(px, py, z, world)
		}
	}
}

// edge is the signed area of (a, b, p); positive when p is to the right of
// a->b in screen space.
func edge(a, b screen, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// covers applies a tie-breaking fill rule: a pixel center exactly on an edge
// belongs to only one of the two triangles sharing it. Stencil counting
// relies on every pixel being covered exactly once per surface.
func covers(w float64, a, b screen) bool {
	if w > 0 {
		return true
	}
	if w < 0 {
		return false
	}
	dy := b.y - a.y
	return dy > 0 || (dy == 0 && b.x < a.x)
}

// shadeFactor is a headlight term from the triangle's face normal.
func shadeFactor(tri [3]vertex, eye math.Vec3) float64 {
	a, b, c := tri[0].world, tri[1].world, tri[2].world
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
	l := [3]float64{float64(eye.X) - a[0], float64(eye.Y) - a[1], float64(eye.Z) - a[2]}
	nl := gomath.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	ll := gomath.Sqrt(l[0]*l[0] + l[1]*l[1] + l[2]*l[2])
	if nl == 0 || ll == 0 {
		return 1
	}
	d := gomath.Abs(n[0]*l[0]+n[1]*l[1]+n[2]*l[2]) / (nl * ll)
	return 0.45 + 0.55*d
}

func (r *Rasterizer) line(f *fragmentState, a, b vertex) {
	a, b, ok := clipSegment(a, b)
	if !ok {
		return
	}
	s0, s1 := r.project(a), r.project(b)
	f.shade = 1

	steps := int(gomath.Ceil(max(gomath.Abs(s1.x-s0.x), gomath.Abs(s1.y-s0.y))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := s0.x + (s1.x-s0.x)*t
		y := s0.y + (s1.y-s0.y)*t
		px, py := int(x), int(y)
		if px < 0 || py < 0 || px >= r.width || py >= r.height {
			continue
		}
		pw := s0.invW*(1-t) + s1.invW*t
		var world [3]float64
		for k := range world {
			world[k] = (s0.world[k]*s0.invW*(1-t) + s1.world[k]*s1.invW*t) / pw
		}
		z := s0.z + (s1.z-s0.z)*t
		// Lines sit slightly in front of the surfaces they outline.
		f.fragment(px, py, z-1e-5, world)
	}
}
