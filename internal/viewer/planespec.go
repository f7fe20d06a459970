package viewer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/sectionview/internal/section"
)

// PlaneSpec describes a plane to create from the command line: an axis
// with optional sign, then optionally "=" and a constant, as in "+x",
// "-y=2.5" or "z=-1".
type PlaneSpec struct {
	Axis        section.Axis
	Sign        section.Sign
	Constant    float32
	HasConstant bool
}

// ParsePlaneSpec parses one plane spec.
func ParsePlaneSpec(s string) (PlaneSpec, error) {
	axisPart, constPart, hasConst := strings.Cut(s, "=")
	axis, sign, err := section.ParseAxisSign(axisPart)
	if err != nil {
		return PlaneSpec{}, err
	}
	spec := PlaneSpec{Axis: axis, Sign: sign}
	if hasConst {
		v, err := strconv.ParseFloat(strings.TrimSpace(constPart), 32)
		if err != nil {
			return PlaneSpec{}, fmt.Errorf("invalid plane constant in %q: %w", s, err)
		}
		spec.Constant = float32(v)
		spec.HasConstant = true
	}
	return spec, nil
}

// ParsePlaneSpecs parses a list of plane specs.
func ParsePlaneSpecs(specs []string) ([]PlaneSpec, error) {
	out := make([]PlaneSpec, 0, len(specs))
	for _, s := range specs {
		p, err := ParsePlaneSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// AddPlanes creates planes in order. The last one ends up selected.
func (c *Context) AddPlanes(specs ...PlaneSpec) error {
	for _, s := range specs {
		if err := c.Apply(Command{Kind: CmdAddPlane, Axis: s.Axis, Sign: s.Sign}); err != nil {
			return err
		}
		if s.HasConstant {
			if err := c.Apply(Command{Kind: CmdSetConstant, Value: s.Constant}); err != nil {
				return err
			}
		}
	}
	return nil
}
