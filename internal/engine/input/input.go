// Package input turns SDL2 events into viewer events and tray actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/dicetray/internal/dice"
)

// EventType classifies an Event.
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
	Shift  bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// RelX and RelY are the motion since the previous move event.
	RelX   int
	RelY   int
	Wheel  int
	Button uint8
	// Buttons is the held-button mask of a move event, bit 0 left.
	Buttons uint32
}

// Action is a tray command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionThrow
	ActionAdd    // add one die of Die
	ActionRemove // remove the newest die of Die
	ActionClear
	ActionPreset // replace the tray with preset number Preset
	ActionScreenshot
	ActionSavePreset
	ActionToggleDebug
)

// Command is an Action with its argument.
type Command struct {
	Action Action
	Die    dice.Type
	Preset int
}

var dieKeys = map[sdl.Scancode]dice.Type{
	sdl.SCANCODE_1: dice.D4,
	sdl.SCANCODE_2: dice.D6,
	sdl.SCANCODE_3: dice.D8,
	sdl.SCANCODE_4: dice.D10,
	sdl.SCANCODE_5: dice.D12,
	sdl.SCANCODE_6: dice.D20,
}

var presetKeys = []sdl.Scancode{
	sdl.SCANCODE_F1, sdl.SCANCODE_F2, sdl.SCANCODE_F3,
	sdl.SCANCODE_F4, sdl.SCANCODE_F5, sdl.SCANCODE_F6,
	sdl.SCANCODE_F7, sdl.SCANCODE_F8, sdl.SCANCODE_F9,
}

// CommandFor maps a key-down event to a tray command. Number keys 1-6 add
// d4..d20 (remove with Shift), F1-F9 load presets.
func CommandFor(e Event) Command {
	if e.Type != EventKeyDown {
		return Command{}
	}
	if t, ok := dieKeys[e.Key]; ok {
		if e.Shift {
			return Command{Action: ActionRemove, Die: t}
		}
		return Command{Action: ActionAdd, Die: t}
	}
	for i, k := range presetKeys {
		if e.Key == k {
			return Command{Action: ActionPreset, Preset: i}
		}
	}
	switch e.Key {
	case sdl.SCANCODE_ESCAPE:
		return Command{Action: ActionQuit}
	case sdl.SCANCODE_SPACE, sdl.SCANCODE_RETURN:
		return Command{Action: ActionThrow}
	case sdl.SCANCODE_BACKSPACE, sdl.SCANCODE_DELETE:
		return Command{Action: ActionClear}
	case sdl.SCANCODE_F12:
		return Command{Action: ActionScreenshot}
	case sdl.SCANCODE_TAB:
		return Command{Action: ActionToggleDebug}
	case sdl.SCANCODE_S:
		if e.Shift {
			return Command{Action: ActionSavePreset}
		}
	}
	return Command{}
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
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			ev := Event{
				Key:   e.Keysym.Scancode,
				Shift: uint16(e.Keysym.Mod)&uint16(sdl.KMOD_SHIFT) != 0,
			}
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				ev.Type = EventKeyDown
			} else if e.Type == sdl.KEYUP {
				ev.Type = EventKeyUp
			} else {
				continue
			}
			i.events = append(i.events, ev)

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:    EventMouseMove,
				MouseX:  int(e.X),
				MouseY:  int(e.Y),
				RelX:    int(e.XRel),
				RelY:    int(e.YRel),
				Buttons: e.State,
			})

		case *sdl.MouseButtonEvent:
			t := EventMouseDown
			if e.Type == sdl.MOUSEBUTTONUP {
				t = EventMouseUp
			}
			i.events = append(i.events, Event{
				Type:   t,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{
				Type:  EventMouseWheel,
				Wheel: int(e.Y),
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Commands returns the tray commands from the last Update in order.
func (i *Input) Commands() []Command {
	var out []Command
	for _, e := range i.events {
		if c := CommandFor(e); c.Action != ActionNone {
			out = append(out, c)
		}
	}
	return out
}
