// Package eventloop models the window event loop: it waits for events and
// exits on the first close request.
package eventloop

import "fmt"

// Event is a platform UI event.
type Event int

const (
	EventUnknown Event = iota
	EventCloseRequested
	EventResized
	EventMoved
	EventFocused
	EventRedrawRequested
	EventKeyboardInput
)

func (e Event) String() string {
	switch e {
	case EventCloseRequested:
		return "close-requested"
	case EventResized:
		return "resized"
	case EventMoved:
		return "moved"
	case EventFocused:
		return "focused"
	case EventRedrawRequested:
		return "redraw-requested"
	case EventKeyboardInput:
		return "keyboard-input"
	default:
		return "unknown"
	}
}

// ControlFlow tells the dispatcher what to do after an event.
type ControlFlow int

const (
	ControlWait ControlFlow = iota
	ControlExit
)

// State of the loop.
type State int

const (
	StateRunning State = iota
	StateExiting
)

// Source delivers events. Next blocks until an event is available.
type Source interface {
	Next() (Event, error)
}

// Loop is the two-state machine: running until a close request, then
// exiting.
type Loop struct {
	state State
}

// New returns a running loop.
func New() *Loop {
	return &Loop{state: StateRunning}
}

// State reports the current state.
func (l *Loop) State() State {
	return l.state
}

// Handle applies one event. Only EventCloseRequested changes the state.
func (l *Loop) Handle(ev Event) ControlFlow {
	if ev == EventCloseRequested {
		l.state = StateExiting
	}
	if l.state == StateExiting {
		return ControlExit
	}
	return ControlWait
}

// Run pulls events from src until the loop exits.
func (l *Loop) Run(src Source) error {
	for {
		ev, err := src.Next()
		if err != nil {
			return fmt.Errorf("event loop: %w", err)
		}
		if l.Handle(ev) == ControlExit {
			return nil
		}
	}
}
