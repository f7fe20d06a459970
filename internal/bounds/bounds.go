// Package bounds computes world-space bounding information for the drawable
// subsets of a model. Results are never cached; callers recompute whenever
// the subsets change.
package bounds

import (
	gomath "math"

	"github.com/Faultbox/sectionview/pkg/geom"
	"github.com/Faultbox/sectionview/pkg/math"
)

// Source is one geometry placed in the world by Transform.
type Source struct {
	Geometry  *geom.Geometry
	Transform math.Mat4
}

// Info is the axis-aligned box of a set of sources plus its bounding sphere.
type Info struct {
	Min    math.Vec3
	Max    math.Vec3
	Center math.Vec3
	Radius float32
}

// Compute returns the union bounds of every index-referenced vertex of the
// sources. With no vertices at all the result is a zero-size box at the
// origin.
func Compute(sources ...Source) Info {
	box := math.EmptyBox()
	for _, s := range sources {
		g := s.Geometry
		if g.IsEmpty() {
			continue
		}
		for _, idx := range g.Indices {
			box = box.ExpandByPoint(s.Transform.TransformVec3(g.Position(idx)))
		}
	}
	if box.IsEmpty() {
		return Info{}
	}

	center := box.Center()
	var radius float32
	for _, c := range box.Corners() {
		radius = float32(gomath.Max(float64(radius), float64(c.Distance(center))))
	}
	return Info{Min: box.Min, Max: box.Max, Center: center, Radius: radius}
}

// Box returns the bounds as a Box3.
func (i Info) Box() math.Box3 {
	return math.Box3{Min: i.Min, Max: i.Max}
}

// Size returns the box dimensions.
func (i Info) Size() math.Vec3 {
	return i.Max.Sub(i.Min)
}

// Extent is the vertical size of the box. Plane helpers and slider ranges
// scale with it.
func (i Info) Extent() float32 {
	return i.Max.Y - i.Min.Y
}

// IsZero reports whether the bounds cover nothing.
func (i Info) IsZero() bool {
	return i == Info{}
}

// Center is shorthand for Compute(sources...).Center.
func Center(sources ...Source) math.Vec3 {
	return Compute(sources...).Center
}

// Extent is shorthand for Compute(sources...).Extent().
func Extent(sources ...Source) float32 {
	return Compute(sources...).Extent()
}
