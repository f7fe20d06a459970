package viewer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/section"
)

// CommandKind enumerates the operations the UI layer can trigger.
type CommandKind int

const (
	CmdAddPlane CommandKind = iota
	CmdSetConstant
	CmdNudgeConstant
	CmdFlipPlane
	CmdDeletePlane
	CmdToggleHelper
	CmdToggleTransparency
	CmdSelectNext
	CmdToggleBounds
)

var commandNames = map[CommandKind]string{
	CmdAddPlane:           "add-plane",
	CmdSetConstant:        "set-constant",
	CmdNudgeConstant:      "nudge-constant",
	CmdFlipPlane:          "flip-plane",
	CmdDeletePlane:        "delete-plane",
	CmdToggleHelper:       "toggle-helper",
	CmdToggleTransparency: "toggle-transparency",
	CmdSelectNext:         "select-next",
	CmdToggleBounds:       "toggle-bounds",
}

func (k CommandKind) String() string {
	if s, ok := commandNames[k]; ok {
		return s
	}
	return fmt.Sprintf("CommandKind(%d)", int(k))
}

// Command is one UI action. Plane commands act on the selected plane.
type Command struct {
	Kind CommandKind
	Axis section.Axis
	Sign section.Sign
	// Value is the constant for CmdSetConstant and the step, in hundredths
	// of the plane extent, for CmdNudgeConstant.
	Value float32
}

// Apply runs a command against the context.
func (c *Context) Apply(cmd Command) error {
	c.log.Debug("command", zap.Stringer("kind", cmd.Kind))

	switch cmd.Kind {
	case CmdAddPlane:
		h, err := c.Planes.AddPlane(cmd.Axis, cmd.Sign)
		if err != nil {
			return err
		}
		c.selected = h
		return nil
	case CmdToggleTransparency:
		c.Subsets.ToggleTransparency()
		return nil
	case CmdSelectNext:
		return c.selectNext()
	case CmdToggleBounds:
		c.ShowBounds(c.bounds == nil)
		return nil
	}

	p, err := c.Planes.Plane(c.selected)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Kind, err)
	}
	h := p.Handle

	switch cmd.Kind {
	case CmdSetConstant:
		return c.Planes.AdjustConstant(h, cmd.Value)
	case CmdNudgeConstant:
		return c.Planes.AdjustConstant(h, p.Plane.Constant+cmd.Value*p.Extent/100)
	case CmdFlipPlane:
		return c.Planes.FlipPlane(h, !p.Inverted)
	case CmdToggleHelper:
		return c.Planes.SetHelperVisible(h, !p.HelperVisible)
	case CmdDeletePlane:
		if err := c.Planes.DeletePlane(h); err != nil {
			return err
		}
		if n := c.Planes.Len(); n > 0 {
			c.selected, _ = c.Planes.At(n - 1)
		}
		return nil
	}
	return fmt.Errorf("unknown command %s", cmd.Kind)
}

func (c *Context) selectNext() error {
	n := c.Planes.Len()
	if n == 0 {
		return nil
	}
	i, err := c.Planes.Index(c.selected)
	if err != nil {
		i = -1
	}
	c.selected, err = c.Planes.At((i + 1) % n)
	return err
}
