package section

import (
	"fmt"
	"strings"

	"github.com/Faultbox/sectionview/internal/engine/scene"
	"github.com/Faultbox/sectionview/pkg/math"
)

// Axis is a principal axis a plane can be normal to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Unit returns the positive unit vector of the axis.
func (a Axis) Unit() math.Vec3 {
	return math.Vec3{}.WithComponent(int(a), 1)
}

func (a Axis) valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Sign is the direction of a plane normal along its axis.
type Sign int8

const (
	Positive Sign = 1
	Negative Sign = -1
)

func (s Sign) String() string {
	if s < 0 {
		return "-"
	}
	return "+"
}

// ParseAxisSign parses "+x", "-y", "z" and the like.
func ParseAxisSign(s string) (Axis, Sign, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	sign := Positive
	switch {
	case strings.HasPrefix(str, "-"):
		sign = Negative
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}
	switch str {
	case "x":
		return AxisX, sign, nil
	case "y":
		return AxisY, sign, nil
	case "z":
		return AxisZ, sign, nil
	}
	return 0, 0, fmt.Errorf("invalid plane axis %q", s)
}

// Handle identifies a plane across re-indexing. A handle outlives its plane
// only as a stale value that every operation rejects.
type Handle = scene.ClipRef

// Plane is one active cutting plane.
type Plane struct {
	Handle   Handle
	Name     string
	Axis     Axis
	Sign     Sign // sign at creation
	Plane    math.Plane
	Inverted bool

	// HelperVisible shows the plane's debug outline.
	HelperVisible bool

	// Extent scales the helper and the constant slider.
	Extent float32

	anchor  math.Vec3
	stencil []*scene.Node
	cap     *scene.Node
	helper  *scene.Node
}

// Cap returns the cap node.
func (p *Plane) Cap() *scene.Node { return p.cap }

// Helper returns the helper outline node.
func (p *Plane) Helper() *scene.Node { return p.helper }

// StencilNodes returns the back- and front-face stencil passes, two per solid.
func (p *Plane) StencilNodes() []*scene.Node { return p.stencil }

// capPosition is where the cap and helper are centered: the model center
// projected onto the plane.
func (p *Plane) capPosition() math.Vec3 {
	return p.Plane.ProjectPoint(p.anchor)
}

// Info is a read-only view of a plane for display.
type Info struct {
	Handle        Handle
	Name          string
	Axis          Axis
	Normal        math.Vec3
	Constant      float32
	Inverted      bool
	HelperVisible bool
}

func (p *Plane) info() Info {
	return Info{
		Handle:        p.Handle,
		Name:          p.Name,
		Axis:          p.Axis,
		Normal:        p.Plane.Normal,
		Constant:      p.Plane.Constant,
		Inverted:      p.Inverted,
		HelperVisible: p.HelperVisible,
	}
}
