package math

// Plane is the set of points p with Normal·p + Constant = 0. Points with a
// positive signed distance lie on the kept side when the plane clips geometry.
type Plane struct {
	Normal   Vec3
	Constant float32
}

// NewPlaneFromPoint returns the plane with the given normal passing through point.
func NewPlaneFromPoint(normal, point Vec3) Plane {
	return Plane{Normal: normal, Constant: -point.Dot(normal)}
}

// DistanceToPoint returns the signed distance from p to the plane.
func (p Plane) DistanceToPoint(point Vec3) float32 {
	return p.Normal.Dot(point) + p.Constant
}

// CoplanarPoint returns the point on the plane closest to the origin.
func (p Plane) CoplanarPoint() Vec3 {
	return p.Normal.Scale(-p.Constant)
}

// ProjectPoint returns the point on the plane closest to point.
func (p Plane) ProjectPoint(point Vec3) Vec3 {
	return point.Sub(p.Normal.Scale(p.DistanceToPoint(point)))
}

// Negate flips the kept half-space.
func (p Plane) Negate() Plane {
	return Plane{Normal: p.Normal.Negate(), Constant: -p.Constant}
}

// Translate moves the plane by offset.
func (p Plane) Translate(offset Vec3) Plane {
	p.Constant -= offset.Dot(p.Normal)
	return p
}

// Vec4 returns the plane as (nx, ny, nz, constant) for shader uniforms.
func (p Plane) Vec4() Vec4 {
	return Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, p.Constant}
}
