package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/sectionview/internal/engine/input"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/viewer"
)

// Action is what a key press asks the host loop to do.
type Action int

const (
	ActionNone Action = iota
	ActionCommand
	ActionQuit
	ActionScreenshot
	ActionReload
)

// Binding is the effect of one key.
type Binding struct {
	Action  Action
	Command viewer.Command
}

// Keymap maps scancodes to bindings.
type Keymap map[sdl.Scancode]Binding

func command(cmd viewer.Command) Binding {
	return Binding{Action: ActionCommand, Command: cmd}
}

func addPlane(axis section.Axis) Binding {
	return command(viewer.Command{Kind: viewer.CmdAddPlane, Axis: axis, Sign: section.Positive})
}

// DefaultKeymap returns the built-in key bindings.
//
//	X Y Z        add a plane (shift: negative normal)
//	Up Down      move the selected plane (shift: ten times faster)
//	F            flip the selected plane
//	Delete       delete the selected plane
//	Tab          select the next plane
//	H            toggle the plane helper
//	T            toggle transparency
//	B            toggle the bounds overlay
//	R            reload the model
//	F12          screenshot
//	Escape       quit
func DefaultKeymap() Keymap {
	return Keymap{
		sdl.SCANCODE_X:         addPlane(section.AxisX),
		sdl.SCANCODE_Y:         addPlane(section.AxisY),
		sdl.SCANCODE_Z:         addPlane(section.AxisZ),
		sdl.SCANCODE_UP:        command(viewer.Command{Kind: viewer.CmdNudgeConstant, Value: 1}),
		sdl.SCANCODE_DOWN:      command(viewer.Command{Kind: viewer.CmdNudgeConstant, Value: -1}),
		sdl.SCANCODE_F:         command(viewer.Command{Kind: viewer.CmdFlipPlane}),
		sdl.SCANCODE_DELETE:    command(viewer.Command{Kind: viewer.CmdDeletePlane}),
		sdl.SCANCODE_BACKSPACE: command(viewer.Command{Kind: viewer.CmdDeletePlane}),
		sdl.SCANCODE_TAB:       command(viewer.Command{Kind: viewer.CmdSelectNext}),
		sdl.SCANCODE_H:         command(viewer.Command{Kind: viewer.CmdToggleHelper}),
		sdl.SCANCODE_T:         command(viewer.Command{Kind: viewer.CmdToggleTransparency}),
		sdl.SCANCODE_B:         command(viewer.Command{Kind: viewer.CmdToggleBounds}),
		sdl.SCANCODE_R:         {Action: ActionReload},
		sdl.SCANCODE_F12:       {Action: ActionScreenshot},
		sdl.SCANCODE_ESCAPE:    {Action: ActionQuit},
	}
}

// Resolve returns the binding for a key-down event. Held keys repeat only
// for plane movement.
func (k Keymap) Resolve(ev input.Event) (Binding, bool) {
	if ev.Type != input.EventKeyDown {
		return Binding{}, false
	}
	b, ok := k[ev.Key]
	if !ok {
		return Binding{}, false
	}
	if ev.Repeat && b.Command.Kind != viewer.CmdNudgeConstant {
		return Binding{}, false
	}
	if b.Action != ActionCommand || !ev.Shift() {
		return b, true
	}

	switch b.Command.Kind {
	case viewer.CmdAddPlane:
		b.Command.Sign = section.Negative
	case viewer.CmdNudgeConstant:
		b.Command.Value *= 10
	}
	return b, true
}
