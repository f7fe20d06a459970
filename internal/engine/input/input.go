// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType is the kind of a translated input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Mod    sdl.Keymod
	Repeat bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// DeltaX and DeltaY are the relative motion for EventMouseMove and the
	// scroll amount for EventMouseWheel.
	DeltaX float32
	DeltaY float32
	Button uint8
	// Buttons is the button mask held during a move.
	Buttons uint32
}

// Shift reports whether either shift key was held.
func (e Event) Shift() bool {
	return e.Mod&sdl.KMOD_SHIFT != 0
}

// Dragging reports whether the left button was held during a move.
func (e Event) Dragging() bool {
	return e.Type == EventMouseMove && e.Buttons&sdl.ButtonLMask() != 0
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them to viewer events.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if ev, ok := Translate(event); ok {
			i.events = append(i.events, ev)
			if ev.Type == EventQuit {
				return true
			}
		}
	}

	return false
}

// Translate converts one SDL event. It reports false for events the viewer
// does not handle.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:    e.Keysym.Scancode,
			Mod:    sdl.Keymod(e.Keysym.Mod),
			Repeat: e.Repeat != 0,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:    EventMouseMove,
			MouseX:  int(e.X),
			MouseY:  int(e.Y),
			DeltaX:  float32(e.XRel),
			DeltaY:  float32(e.YRel),
			Buttons: e.State,
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		return Event{
			Type:   EventMouseWheel,
			DeltaX: float32(e.X),
			DeltaY: float32(e.Y),
		}, true
	}
	return Event{}, false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
