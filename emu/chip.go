// Package emu provides functional emulation of a bit-slice ALU chip.
package emu

import (
	"fmt"

	"github.com/sarchlab/slicesim/insts"
)

// Inputs are the data and instruction inputs sampled on a clock edge.
type Inputs struct {
	// Instruction is the decoded I vector plus the link mode.
	Instruction insts.MicroInstruction
	// A and B are the register addresses. Only the low 4 bits are used.
	A, B uint8
	// D is the external data word.
	D Word
	// C0 is the external carry-in.
	C0 bool
}

// Control holds the levels of the control inputs.
type Control struct {
	// OE clears the chip asynchronously while high.
	OE bool
	// CLK triggers a cycle on its rising edge.
	CLK bool
}

// Outputs are the values a computing cycle drives.
type Outputs struct {
	// Y is the output bus value.
	Y Word
	// Flags are the status outputs.
	Flags Flags
	// Boundary is only meaningful on variants with ShiftLink set.
	Boundary Boundary
}

// Chip is one bit-slice device. It owns its register file; it is not safe
// for concurrent use.
type Chip struct {
	variant Variant
	regFile *RegFile
	alu     *ALU
	router  *Router

	lastCLK bool
	cycles  uint64
}

// NewChip creates a chip of the given variant with all registers zeroed.
func NewChip(variant Variant) (*Chip, error) {
	if err := variant.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create chip: %w", err)
	}

	return &Chip{
		variant: variant,
		regFile: NewRegFile(variant.Width),
		alu:     NewALU(variant.Width),
		router:  NewRouter(NewShiftLink(variant.Width, variant.ShiftLink)),
	}, nil
}

// Variant returns the chip's variant.
func (c *Chip) Variant() Variant {
	return c.variant
}

// RegFile returns the chip's register file.
func (c *Chip) RegFile() *RegFile {
	return c.regFile
}

// Cycles returns the number of computing cycles executed.
func (c *Chip) Cycles() uint64 {
	return c.cycles
}

// Clear zeroes the register file and the accumulator.
func (c *Chip) Clear() {
	c.regFile.Clear()
}

// Step is the per-event entry point. While OE is high the chip is cleared
// and nothing is computed. Otherwise a cycle runs only if CLK rose since the
// previous call. The second return value reports whether a cycle ran.
func (c *Chip) Step(ctl Control, in Inputs) (Outputs, bool) {
	rising := ctl.CLK && !c.lastCLK
	c.lastCLK = ctl.CLK

	if ctl.OE {
		c.Clear()
		return Outputs{}, false
	}

	if !rising {
		return Outputs{}, false
	}

	return c.Execute(in), true
}

// Execute runs one computing cycle unconditionally:
// operand selection, the ALU and the destination router.
func (c *Chip) Execute(in Inputs) Outputs {
	mask := c.variant.Width.Mask()
	inst := in.Instruction
	if !c.variant.ShiftLink {
		inst.LinkMode = insts.LinkNone
	}

	ops := SelectOperands(inst.Source, in.A, in.B, in.D&mask, c.regFile)
	res := c.alu.Compute(inst.Function, ops.R, ops.S, in.C0)
	y := c.router.Route(inst.Destination, inst.LinkMode, res.F, in.A, in.B, c.regFile)

	c.cycles++

	out := Outputs{Y: y, Flags: res.Flags}
	if c.variant.ShiftLink {
		out.Boundary = c.boundary(in.B)
	}
	return out
}

func (c *Chip) boundary(b uint8) Boundary {
	msb := c.variant.Width.MSB()
	reg := c.regFile.Read(b)
	acc := c.regFile.Q

	return Boundary{
		RegLSB: reg&1 != 0,
		RegMSB: reg&msb != 0,
		AccLSB: acc&1 != 0,
		AccMSB: acc&msb != 0,
	}
}
