// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/sectionview/pkg/math"
)

// Camera is what the render backends need from a camera.
type Camera interface {
	Position() math.Vec3
	ViewMatrix() math.Mat4
	ProjectionMatrix(aspect float32) math.Mat4
	// Update advances damped controls by dt seconds.
	Update(dt float32)
}

// OrbitCamera orbits around a target point.
type OrbitCamera struct {
	Target math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from target
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Damping is the fraction of pending motion applied per 1/60 s.
	// Zero applies input immediately.
	Damping float32

	FovY      float32
	NearPlane float32
	FarPlane  float32

	pendingYaw, pendingPitch, pendingZoom float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        10.0,
		RotationX:       0.5,
		RotationY:       0.7,
		MinDistance:     0.1,
		MaxDistance:     5000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Damping:         0.25,
		FovY:            float32(gomath.Pi / 4),
		NearPlane:       0.1,
		FarPlane:        1000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Target.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.UnitY)
}

// ProjectionMatrix returns a perspective projection.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	return math.Perspective(c.FovY, aspect, c.NearPlane, c.FarPlane)
}

// HandleDrag queues a rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.pendingYaw -= deltaX * c.DragSensitivity
	c.pendingPitch += deltaY * c.DragSensitivity
	if c.Damping == 0 {
		c.Update(0)
	}
}

// HandleZoom queues a distance change from a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.pendingZoom -= delta * c.ZoomSensitivity
	if c.Damping == 0 {
		c.Update(0)
	}
}

// Update applies a share of the queued motion, like damped orbit controls.
func (c *OrbitCamera) Update(dt float32) {
	f := float32(1)
	if c.Damping > 0 {
		f = 1 - float32(gomath.Pow(float64(1-c.Damping), float64(dt*60)))
	}

	yaw, pitch, zoom := c.pendingYaw*f, c.pendingPitch*f, c.pendingZoom*f
	c.pendingYaw -= yaw
	c.pendingPitch -= pitch
	c.pendingZoom -= zoom

	c.RotationY += yaw
	c.RotationX = clamp(c.RotationX+pitch, c.MinPitch, c.MaxPitch)
	c.Distance = clamp(c.Distance*(1+zoom), c.MinDistance, c.MaxDistance)
}

// Settled reports whether no queued motion remains.
func (c *OrbitCamera) Settled() bool {
	const eps = 1e-5
	return abs(c.pendingYaw) < eps && abs(c.pendingPitch) < eps && abs(c.pendingZoom) < eps
}

// FitToBounds centers the camera on a box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box math.Box3) {
	if box.IsEmpty() {
		return
	}
	c.Target = box.Center()

	radius := box.Size().Length() / 2
	dist := radius / float32(gomath.Sin(float64(c.FovY/2)))
	if dist < c.MinDistance {
		dist = c.MinDistance
	}
	c.Distance = dist
	if c.FarPlane < dist+radius*2 {
		c.FarPlane = dist + radius*2
	}
	c.NearPlane = dist / 1000
}

// OrthoCamera looks along a fixed direction with a parallel projection.
type OrthoCamera struct {
	Eye    math.Vec3
	Target math.Vec3
	Up     math.Vec3

	// HalfHeight is half the visible height in world units.
	HalfHeight float32
	Near, Far  float32
}

// NewAxisCamera creates an orthographic camera that looks at center along
// dir from distance away.
func NewAxisCamera(center, dir math.Vec3, halfHeight, distance float32) *OrthoCamera {
	dir = dir.Normalize()
	up := math.UnitY
	if abs(dir.Dot(up)) > 0.999 {
		up = math.UnitZ.Negate()
	}
	return &OrthoCamera{
		Eye:        center.Sub(dir.Scale(distance)),
		Target:     center,
		Up:         up,
		HalfHeight: halfHeight,
		Near:       0.01,
		Far:        distance * 2,
	}
}

// Position returns the eye position.
func (c *OrthoCamera) Position() math.Vec3 { return c.Eye }

// ViewMatrix returns the view matrix.
func (c *OrthoCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye, c.Target, c.Up)
}

// ProjectionMatrix returns an orthographic projection.
func (c *OrthoCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	hw := c.HalfHeight * aspect
	return math.Ortho(-hw, hw, -c.HalfHeight, c.HalfHeight, c.Near, c.Far)
}

// Update is a no-op; the camera has no controls.
func (c *OrthoCamera) Update(float32) {}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
