// Package device implements the per-device lifecycle state machine:
// open/reset/start/stop/close/suspend/resume, wiring the platform audio
// API contract and the pump's producer/consumer pair together. Grounded
// on original_source/Alc/backends/opensl.c's openDevice/resetDevice/
// startDevice/stopDevice/closeDevice functions.
package device

import "fmt"

// Lifecycle is one state in the device's open/reset/start/suspend/close
// state machine.
type Lifecycle int

const (
	Closed Lifecycle = iota
	Opened
	Configured
	Playing
	Suspended
)

func (l Lifecycle) String() string {
	switch l {
	case Closed:
		return "CLOSED"
	case Opened:
		return "OPENED"
	case Configured:
		return "CONFIGURED"
	case Playing:
		return "PLAYING"
	case Suspended:
		return "SUSPENDED"
	default:
		return "UNKNOWN"
	}
}

// transitions enumerates every legal edge in the state machine; anything
// not listed here is rejected by transition.
var transitions = map[Lifecycle]map[Lifecycle]bool{
	Closed:     {Opened: true},
	Opened:     {Configured: true, Closed: true},
	Configured: {Playing: true, Closed: true},
	Playing:    {Suspended: true, Closed: true},
	Suspended:  {Playing: true, Closed: true},
}

func (l Lifecycle) canTransitionTo(next Lifecycle) bool {
	return transitions[l][next]
}

type stateError struct {
	from, to Lifecycle
}

func (e *stateError) Error() string {
	return fmt.Sprintf("device: illegal transition %s -> %s", e.from, e.to)
}
