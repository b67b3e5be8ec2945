// Package core provides the multi-slice datapath model.
// It chains slices on one akita engine into a wider ALU and offers a
// step-at-a-time interface to the whole datapath.
//
// Each slice forms C4 from its own operands without its C0, so a carry
// reaching a middle slice whose generate/propagate chain is all propagate is
// not passed on. Datapaths of one or two slices are exact.
package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/insts"
	"github.com/sarchlab/slicesim/timing/device"
	"github.com/sarchlab/slicesim/timing/latency"
	"github.com/sarchlab/slicesim/timing/pins"
)

// MaxBits is the widest datapath a Core assembles.
const MaxBits = 64

// ExactSlices is the longest chain whose carries always match a full-width
// adder. Longer chains drop a carry that reaches a middle slice whose
// operands only propagate it.
const ExactSlices = 2

// ErrBadSliceCount is returned for a slice count outside 1..MaxBits/W.
var ErrBadSliceCount = errors.New("bad slice count")

// Stats holds statistics for the datapath.
type Stats struct {
	// Cycles is the number of clock cycles issued.
	Cycles uint64
	// Clears is the number of OE pulses issued.
	Clears uint64
}

// Input is one micro-instruction step for the whole datapath.
type Input struct {
	Instruction insts.MicroInstruction
	A, B        uint8
	// D is the full-width data word; slice i receives bits i*W .. i*W+W-1.
	// Bits at and above Bits() reach no slice and are dropped.
	D uint64
	// C0 is the carry into the lowest slice.
	C0 bool
}

// Result holds the datapath outputs after a step.
type Result struct {
	// Y is the full-width output bus.
	Y uint64
	// Flags are taken from the most significant slice, except Zero, which
	// is the wired AND of every slice's Z pin.
	Flags emu.Flags
	// Boundaries holds each slice's shift boundary pins, lowest slice first.
	// It is empty for slices without the shift-link network.
	Boundaries []emu.Boundary
}

// Core is a datapath built from identical slices.
type Core struct {
	engine  sim.Engine
	table   *latency.Table
	logger  *logrus.Logger
	variant emu.Variant
	slices  []*device.Device
	now     sim.VTimeInSec
	stats   Stats
}

// Option is a functional option for configuring the Core.
type Option func(*Core)

// WithLatencyTable sets the timing used by every slice and by the clock.
func WithLatencyTable(table *latency.Table) Option {
	return func(c *Core) {
		c.table = table
	}
}

// WithLogger sets the logger used by the core and its slices.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Core) {
		c.logger = logger
	}
}

// NewCore creates a datapath of n slices of the given variant. The C4 pin of
// each slice drives the C0 pin of the next one.
func NewCore(variant emu.Variant, n int, opts ...Option) (*Core, error) {
	c := &Core{
		engine:  sim.NewSerialEngine(),
		table:   latency.NewTable(),
		logger:  logrus.StandardLogger(),
		variant: variant,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := variant.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create core: %w", err)
	}
	if n < 1 || n*int(variant.Width) > MaxBits {
		return nil, fmt.Errorf("%w: %d slices of %d bits", ErrBadSliceCount, n, variant.Width)
	}

	// The last slice must settle before the falling edge.
	settle := sim.VTimeInSec(n)*c.table.RippleSkew() + c.table.MaxDelay()
	if settle >= c.table.ClockPeriod()/2 {
		return nil, fmt.Errorf("clock period too short for %d slices", n)
	}

	for i := 0; i < n; i++ {
		d, err := device.New(
			fmt.Sprintf("slice%d", i),
			variant,
			c.engine,
			device.WithLatencyTable(c.table),
			device.WithLogger(c.logger),
		)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			if err := c.slices[i-1].Connect(pins.C4, d, pins.C0); err != nil {
				return nil, err
			}
		}
		c.slices = append(c.slices, d)
	}

	c.logger.WithFields(logrus.Fields{
		"variant": variant.String(),
		"slices":  n,
		"bits":    c.Bits(),
	}).Debug("Datapath created")

	if n > ExactSlices {
		c.logger.WithFields(logrus.Fields{
			"slices": n,
		}).Warn("Carries into an all-propagate middle slice are dropped")
	}

	return c, nil
}

// Bits returns the datapath width.
func (c *Core) Bits() int {
	return len(c.slices) * int(c.variant.Width)
}

// Slices returns the devices, lowest slice first.
func (c *Core) Slices() []*device.Device {
	return c.slices
}

// Engine returns the simulation engine the slices run on.
func (c *Core) Engine() sim.Engine {
	return c.engine
}

// Now returns the time at which the next step starts.
func (c *Core) Now() sim.VTimeInSec {
	return c.now
}

// Stats returns statistics for the datapath.
func (c *Core) Stats() Stats {
	return c.stats
}

// Execute drives one step onto every slice, issues one clock cycle and
// returns the settled outputs. Slice i sees its rising edge (i+1) ripple
// skews after the inputs change, so that it samples the carry of slice i-1.
//
// Shift destinations act on each slice on its own. The boundary pins are
// outputs only, so no bit crosses into a neighbor: RAMD on a 2x8-bit
// datapath holding 0x0100 leaves 0x0000, not 0x0080.
func (c *Core) Execute(in Input) (Result, error) {
	t := c.now
	word := in.Instruction.Encode()
	width := int(c.variant.Width)
	mask := uint64(c.variant.Width.Mask())

	for i, d := range c.slices {
		if err := d.DriveWord(t, pins.I, pins.IWidth, word); err != nil {
			return Result{}, err
		}
		if c.variant.ShiftLink {
			if err := d.DriveWord(t, pins.M, pins.MWidth, word>>pins.IWidth); err != nil {
				return Result{}, err
			}
		}
		if err := d.DriveWord(t, pins.A, pins.AddrWidth, uint16(in.A)); err != nil {
			return Result{}, err
		}
		if err := d.DriveWord(t, pins.B, pins.AddrWidth, uint16(in.B)); err != nil {
			return Result{}, err
		}
		data := uint16((in.D >> (i * width)) & mask)
		if err := d.DriveWord(t, pins.D, width, data); err != nil {
			return Result{}, err
		}

		rise := t + sim.VTimeInSec(i+1)*c.table.RippleSkew()
		if err := d.Drive(rise, pins.CLK, pins.High); err != nil {
			return Result{}, err
		}
		if err := d.Drive(t+c.table.ClockPeriod()/2, pins.CLK, pins.Low); err != nil {
			return Result{}, err
		}
	}

	if err := c.slices[0].Drive(t, pins.C0, pins.LevelOf(in.C0)); err != nil {
		return Result{}, err
	}

	if err := c.run(); err != nil {
		return Result{}, err
	}
	c.stats.Cycles++

	return c.collect()
}

// Clear pulses OE on every slice for half a clock period.
func (c *Core) Clear() error {
	t := c.now
	for _, d := range c.slices {
		if err := d.Drive(t, pins.OE, pins.High); err != nil {
			return err
		}
		if err := d.Drive(t+c.table.ClockPeriod()/2, pins.OE, pins.Low); err != nil {
			return err
		}
	}

	if err := c.run(); err != nil {
		return err
	}
	c.stats.Clears++

	return nil
}

// Reset clears every slice and the statistics.
func (c *Core) Reset() error {
	if err := c.Clear(); err != nil {
		return err
	}
	c.stats = Stats{}
	return nil
}

// Register assembles register addr across all slices.
func (c *Core) Register(addr uint8) uint64 {
	var v uint64
	for i, d := range c.slices {
		v |= uint64(d.Chip().RegFile().Read(addr)) << (i * int(c.variant.Width))
	}
	return v
}

// Accumulator assembles Q across all slices.
func (c *Core) Accumulator() uint64 {
	var v uint64
	for i, d := range c.slices {
		v |= uint64(d.Chip().RegFile().Q) << (i * int(c.variant.Width))
	}
	return v
}

func (c *Core) run() error {
	if err := c.engine.Run(); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	c.now += c.table.ClockPeriod()
	return nil
}

func (c *Core) collect() (Result, error) {
	width := int(c.variant.Width)
	res := Result{Flags: emu.Flags{Zero: true}}

	for i, d := range c.slices {
		y, err := d.OutputWord(pins.Y, width)
		if err != nil {
			return Result{}, err
		}
		res.Y |= uint64(y) << (i * width)

		z, err := d.Output(pins.Z)
		if err != nil {
			return Result{}, err
		}
		res.Flags.Zero = res.Flags.Zero && z.Bool()

		if c.variant.ShiftLink {
			res.Boundaries = append(res.Boundaries, emu.Boundary{
				RegLSB: outputHigh(d, pins.RAML),
				RegMSB: outputHigh(d, pins.RAMH),
				AccLSB: outputHigh(d, pins.QL),
				AccMSB: outputHigh(d, pins.QH),
			})
		}
	}

	top := c.slices[len(c.slices)-1]
	res.Flags.Sign = outputHigh(top, pins.F3)
	res.Flags.Carry = outputHigh(top, pins.C4)
	res.Flags.Overflow = outputHigh(top, pins.OVR)

	return res, nil
}

func outputHigh(d *device.Device, pin string) bool {
	l, err := d.Output(pin)
	return err == nil && l.Bool()
}
