// Package geom holds flat indexed geometry shared by the model, subset and
// section packages.
package geom

import (
	"errors"
	"fmt"

	"github.com/Faultbox/sectionview/pkg/math"
)

// Primitive selects how indices are assembled.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// ErrMalformed is returned by Validate for inconsistent attribute buffers.
var ErrMalformed = errors.New("malformed geometry")

// Geometry is an indexed vertex buffer. Positions holds x, y, z per vertex.
// IDs, when present, holds one semantic id per vertex.
type Geometry struct {
	Primitive Primitive
	Positions []float32
	Indices   []uint32
	IDs       []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Position returns vertex i.
func (g *Geometry) Position(i uint32) math.Vec3 {
	o := int(i) * 3
	return math.Vec3{X: g.Positions[o], Y: g.Positions[o+1], Z: g.Positions[o+2]}
}

// IsEmpty reports whether the geometry draws nothing.
func (g *Geometry) IsEmpty() bool {
	return g == nil || len(g.Indices) == 0
}

// Validate checks that attribute buffers agree with each other.
func (g *Geometry) Validate() error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("%w: %d position floats is not a multiple of 3", ErrMalformed, len(g.Positions))
	}
	n := g.VertexCount()
	if g.IDs != nil && len(g.IDs) != n {
		return fmt.Errorf("%w: %d ids for %d vertices", ErrMalformed, len(g.IDs), n)
	}
	stride := 3
	if g.Primitive == Lines {
		stride = 2
	}
	if len(g.Indices)%stride != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of %d", ErrMalformed, len(g.Indices), stride)
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrMalformed, idx, i, n)
		}
	}
	return nil
}

// Bounds returns the local-space box over index-referenced vertices.
func (g *Geometry) Bounds() math.Box3 {
	box := math.EmptyBox()
	if g == nil {
		return box
	}
	for _, idx := range g.Indices {
		box = box.ExpandByPoint(g.Position(idx))
	}
	return box
}

// PlaneQuad returns a width x height quad in the local XY plane facing +Z.
func PlaneQuad(width, height float32) *Geometry {
	w, h := width/2, height/2
	return &Geometry{
		Primitive: Triangles,
		Positions: []float32{
			-w, -h, 0,
			w, -h, 0,
			w, h, 0,
			-w, h, 0,
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// SquareOutline returns the border of a size x size square in the local XY
// plane as line segments, plus its two diagonals.
func SquareOutline(size float32) *Geometry {
	s := size / 2
	return &Geometry{
		Primitive: Lines,
		Positions: []float32{
			-s, -s, 0,
			s, -s, 0,
			s, s, 0,
			-s, s, 0,
		},
		Indices: []uint32{0, 1, 1, 2, 2, 3, 3, 0, 0, 2, 1, 3},
	}
}

// Box returns a closed axis-aligned box with outward-facing, counter-clockwise
// triangles.
func Box(lo, hi math.Vec3) *Geometry {
	g := &Geometry{Primitive: Triangles}
	for i := 0; i < 8; i++ {
		x, y, z := lo.X, lo.Y, lo.Z
		if i&1 != 0 {
			x = hi.X
		}
		if i&2 != 0 {
			y = hi.Y
		}
		if i&4 != 0 {
			z = hi.Z
		}
		g.Positions = append(g.Positions, x, y, z)
	}
	g.Indices = []uint32{
		0, 2, 3, 0, 3, 1, // -Z
		4, 5, 7, 4, 7, 6, // +Z
		0, 4, 6, 0, 6, 2, // -X
		1, 3, 7, 1, 7, 5, // +X
		0, 1, 5, 0, 5, 4, // -Y
		2, 6, 7, 2, 7, 3, // +Y
	}
	return g
}
