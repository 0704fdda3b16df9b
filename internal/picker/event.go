// Package picker implements the interactive selection flows as explicit
// finite state machines.
//
// Each picker has an enumerated set of states and a transition table keyed
// by (state, Event). Events are abstract user intents (Up, Confirm, Delete)
// rather than keys, so the machines can be driven by a terminal, a test, or
// any other front end. KeyEvent maps raw terminal input to events.
//
// A picker is finished once Done reports true; its Outcome then describes
// what the user chose. The pickers never perform the chosen action
// themselves.
package picker

// Event is an abstract user input.
type Event int

const (
	EventNone Event = iota
	EventUp
	EventDown
	EventLeft
	EventRight
	EventToggle
	EventConfirm
	EventCancel
	EventDelete
	EventSync
	EventYes
	EventNo
)

var eventNames = map[Event]string{
	EventNone:    "none",
	EventUp:      "up",
	EventDown:    "down",
	EventLeft:    "left",
	EventRight:   "right",
	EventToggle:  "toggle",
	EventConfirm: "confirm",
	EventCancel:  "cancel",
	EventDelete:  "delete",
	EventSync:    "sync",
	EventYes:     "yes",
	EventNo:      "no",
}

// String returns the event name used in logs.
func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// keyEvents maps terminal key sequences to events. Arrow keys arrive as
// ANSI escape sequences; vi-style letters are accepted as well.
var keyEvents = map[string]Event{
	"\x1b[A": EventUp,
	"\x1bOA": EventUp,
	"k":      EventUp,
	"\x1b[B": EventDown,
	"\x1bOB": EventDown,
	"j":      EventDown,
	"\x1b[D": EventLeft,
	"\x1bOD": EventLeft,
	"h":      EventLeft,
	"\x1b[C": EventRight,
	"\x1bOC": EventRight,
	"l":      EventRight,
	" ":      EventToggle,
	"\r":     EventConfirm,
	"\n":     EventConfirm,
	"q":      EventCancel,
	"\x1b":   EventCancel,
	"\x03":   EventCancel, // Ctrl-C in raw mode
	"d":      EventDelete,
	"x":      EventDelete,
	"s":      EventSync,
	"y":      EventYes,
	"Y":      EventYes,
	"n":      EventNo,
	"N":      EventNo,
}

// KeyEvent translates one read from a raw-mode terminal into an Event.
// Unrecognized input maps to EventNone.
func KeyEvent(input []byte) Event {
	if ev, ok := keyEvents[string(input)]; ok {
		return ev
	}
	return EventNone
}

// clamp keeps a cursor inside [0, n).
func clamp(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
