// Package device drives an emu.Chip from pin-level events on an akita engine.
//
// A Device owns one chip and two pin banks. Input pin events re-evaluate the
// chip: while OE is high it is cleared, and on a rising CLK edge one cycle
// runs. The outputs of a cycle are scheduled as pin events after their
// propagation delay, and output pins can be connected to the inputs of other
// devices to cascade slices.
package device

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/insts"
	"github.com/sarchlab/slicesim/timing/latency"
	"github.com/sarchlab/slicesim/timing/pins"
)

// Scheduler is the part of an akita engine a device needs.
type Scheduler interface {
	Schedule(e sim.Event)
	CurrentTime() sim.VTimeInSec
}

// Stats holds per-device counters.
type Stats struct {
	// Cycles is the number of computing cycles.
	Cycles uint64
	// Clears is the number of input events that found OE high.
	Clears uint64
}

type link struct {
	dst *Device
	pin string
}

// Device is one slice on the simulation engine.
type Device struct {
	*sim.HookableBase

	name    string
	chip    *emu.Chip
	engine  Scheduler
	table   *latency.Table
	decoder *insts.Decoder
	logger  *logrus.Logger

	inputs  *pins.Bank
	outputs *pins.Bank
	links   map[string][]link

	stats Stats
}

// Option is a functional option for configuring a Device.
type Option func(*Device)

// WithLatencyTable sets the output delay table.
func WithLatencyTable(table *latency.Table) Option {
	return func(d *Device) {
		d.table = table
	}
}

// WithLogger sets the logger cycles and clears are reported to.
func WithLogger(logger *logrus.Logger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// New creates a device of the given variant scheduling on engine.
func New(name string, variant emu.Variant, engine Scheduler, opts ...Option) (*Device, error) {
	chip, err := emu.NewChip(variant)
	if err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", name, err)
	}

	width := int(variant.Width)
	d := &Device{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		chip:         chip,
		engine:       engine,
		table:        latency.NewTable(),
		decoder:      insts.NewDecoder(),
		logger:       logrus.StandardLogger(),
		inputs:       pins.NewBank(pins.InputNames(width, variant.ShiftLink)...),
		outputs:      pins.NewBank(pins.OutputNames(width, variant.ShiftLink)...),
		links:        make(map[string][]link),
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.table.Config().Validate(); err != nil {
		return nil, fmt.Errorf("failed to create device %s: %w", name, err)
	}

	return d, nil
}

// Name returns the device name.
func (d *Device) Name() string {
	return d.name
}

// Chip returns the emulated chip.
func (d *Device) Chip() *emu.Chip {
	return d.chip
}

// Stats returns the device counters.
func (d *Device) Stats() Stats {
	return d.stats
}

// Drive schedules an input pin change at time t.
func (d *Device) Drive(t sim.VTimeInSec, pin string, level pins.Level) error {
	if !d.inputs.Has(pin) {
		return fmt.Errorf("%s: %w %q", d.name, pins.ErrUnknownPin, pin)
	}
	d.engine.Schedule(NewPinEvent(t, d, pin, level))
	return nil
}

// DriveWord schedules the n-bit value v onto an input bus at time t.
func (d *Device) DriveWord(t sim.VTimeInSec, prefix string, n int, v uint16) error {
	for _, bit := range pins.Split(prefix, n, v) {
		if err := d.Drive(t, bit.Name, bit.Level); err != nil {
			return err
		}
	}
	return nil
}

// Input returns the current level of an input pin.
func (d *Device) Input(pin string) (pins.Level, error) {
	return d.inputs.Get(pin)
}

// Output returns the current level of an output pin.
func (d *Device) Output(pin string) (pins.Level, error) {
	return d.outputs.Get(pin)
}

// OutputWord returns the value currently on an output bus.
func (d *Device) OutputWord(prefix string, n int) (uint16, error) {
	return d.outputs.Word(prefix, n)
}

// Connect forwards every level change of output pin out to input pin in of
// dst, at the time the output changes.
func (d *Device) Connect(out string, dst *Device, in string) error {
	if !d.outputs.Has(out) {
		return fmt.Errorf("%s: %w %q", d.name, pins.ErrUnknownPin, out)
	}
	if !dst.inputs.Has(in) {
		return fmt.Errorf("%s: %w %q", dst.name, pins.ErrUnknownPin, in)
	}
	d.links[out] = append(d.links[out], link{dst: dst, pin: in})
	return nil
}

// Handle processes pin events.
func (d *Device) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *PinEvent:
		return d.handlePin(evt)
	default:
		return fmt.Errorf("%s: cannot handle event of type %T", d.name, e)
	}
}

func (d *Device) handlePin(evt *PinEvent) error {
	if d.inputs.Has(evt.Pin) {
		changed, err := d.inputs.Set(evt.Pin, evt.Level)
		if err != nil {
			return err
		}
		if changed {
			return d.evaluate(evt.Time())
		}
		return nil
	}

	changed, err := d.outputs.Set(evt.Pin, evt.Level)
	if err != nil {
		return fmt.Errorf("%s: %w", d.name, err)
	}
	if !changed {
		return nil
	}

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosOutput,
		Detail: OutputChange{Time: evt.Time(), Pin: evt.Pin, Level: evt.Level},
	})

	for _, l := range d.links[evt.Pin] {
		d.engine.Schedule(NewPinEvent(evt.Time(), l.dst, l.pin, evt.Level))
	}

	return nil
}

// evaluate runs the cycle controller on the current input levels.
func (d *Device) evaluate(now sim.VTimeInSec) error {
	ctl := emu.Control{
		OE:  d.inputs.IsHigh(pins.OE),
		CLK: d.inputs.IsHigh(pins.CLK),
	}

	in, err := d.sample()
	if err != nil {
		return err
	}

	out, ran := d.chip.Step(ctl, in)

	if ctl.OE {
		d.stats.Clears++
		d.logger.WithFields(logrus.Fields{
			"device": d.name,
			"time":   now,
		}).Debug("Slice clear")
		return nil
	}

	if !ran {
		return nil
	}

	d.stats.Cycles++
	d.logger.WithFields(logrus.Fields{
		"device":      d.name,
		"time":        now,
		"instruction": in.Instruction.String(),
		"y":           fmt.Sprintf("0x%X", out.Y),
		"flags":       fmt.Sprintf("%+v", out.Flags),
	}).Debug("Slice cycle")

	d.InvokeHook(sim.HookCtx{
		Domain: d,
		Pos:    HookPosCycle,
		Item:   out,
	})

	d.publish(now, out)

	return nil
}

// sample converts the input pin levels to chip inputs.
func (d *Device) sample() (emu.Inputs, error) {
	variant := d.chip.Variant()
	width := int(variant.Width)

	iv, err := d.inputs.Word(pins.I, pins.IWidth)
	if err != nil {
		return emu.Inputs{}, err
	}
	if variant.ShiftLink {
		m, err := d.inputs.Word(pins.M, pins.MWidth)
		if err != nil {
			return emu.Inputs{}, err
		}
		iv |= m << pins.IWidth
	}

	a, err := d.inputs.Word(pins.A, pins.AddrWidth)
	if err != nil {
		return emu.Inputs{}, err
	}
	b, err := d.inputs.Word(pins.B, pins.AddrWidth)
	if err != nil {
		return emu.Inputs{}, err
	}
	data, err := d.inputs.Word(pins.D, width)
	if err != nil {
		return emu.Inputs{}, err
	}

	return emu.Inputs{
		Instruction: d.decoder.Decode(iv),
		A:           uint8(a),
		B:           uint8(b),
		D:           emu.Word(data),
		C0:          d.inputs.IsHigh(pins.C0),
	}, nil
}

// publish schedules the outputs of a cycle after their propagation delays.
func (d *Device) publish(now sim.VTimeInSec, out emu.Outputs) {
	variant := d.chip.Variant()

	for _, bit := range pins.Split(pins.Y, int(variant.Width), uint16(out.Y)) {
		d.schedule(now, latency.GroupData, bit.Name, bit.Level)
	}

	d.schedule(now, latency.GroupFlags, pins.Z, pins.LevelOf(out.Flags.Zero))
	d.schedule(now, latency.GroupFlags, pins.F3, pins.LevelOf(out.Flags.Sign))
	d.schedule(now, latency.GroupFlags, pins.C4, pins.LevelOf(out.Flags.Carry))
	d.schedule(now, latency.GroupFlags, pins.OVR, pins.LevelOf(out.Flags.Overflow))

	if variant.ShiftLink {
		d.schedule(now, latency.GroupBoundary, pins.RAML, pins.LevelOf(out.Boundary.RegLSB))
		d.schedule(now, latency.GroupBoundary, pins.RAMH, pins.LevelOf(out.Boundary.RegMSB))
		d.schedule(now, latency.GroupBoundary, pins.QL, pins.LevelOf(out.Boundary.AccLSB))
		d.schedule(now, latency.GroupBoundary, pins.QH, pins.LevelOf(out.Boundary.AccMSB))
	}
}

func (d *Device) schedule(now sim.VTimeInSec, g latency.Group, pin string, level pins.Level) {
	d.engine.Schedule(NewPinEvent(now+d.table.Delay(g), d, pin, level))
}
