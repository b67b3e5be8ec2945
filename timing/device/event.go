package device

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/slicesim/timing/pins"
)

// PinEvent sets a pin of a device to a level at a given time.
type PinEvent struct {
	*sim.EventBase

	Pin   string
	Level pins.Level
}

// NewPinEvent creates a PinEvent delivered to handler at time t.
func NewPinEvent(t sim.VTimeInSec, handler sim.Handler, pin string, level pins.Level) *PinEvent {
	return &PinEvent{
		EventBase: sim.NewEventBase(t, handler),
		Pin:       pin,
		Level:     level,
	}
}

// OutputChange is the hook detail of HookPosOutput.
type OutputChange struct {
	Time  sim.VTimeInSec
	Pin   string
	Level pins.Level
}

// HookPosOutput marks an output pin changing level.
var HookPosOutput = &sim.HookPos{Name: "Output"}

// HookPosCycle marks a computing cycle. The hook item is the emu.Outputs
// the cycle produced.
var HookPosCycle = &sim.HookPos{Name: "Cycle"}
