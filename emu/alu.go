// Package emu provides functional emulation of a bit-slice ALU chip.
package emu

import "github.com/sarchlab/slicesim/insts"

// Flags holds the status outputs of one cycle. They are recomputed every
// cycle and never stored in the chip.
type Flags struct {
	// Zero is set if the result is zero.
	Zero bool
	// Sign is the result's most significant bit (the F3 pin on the 4-bit slice).
	Sign bool
	// Carry is the carry out of the lookahead network (C4).
	Carry bool
	// Overflow is the signed overflow flag.
	Overflow bool
}

// ALUResult is the output of the function unit.
type ALUResult struct {
	// F is the result word.
	F Word
	// Flags are the status flags derived from the operands and F.
	Flags Flags
}

// ALU implements the eight-function carry-lookahead function unit.
type ALU struct {
	width Width
}

// NewALU creates a function unit for the given word width.
func NewALU(width Width) *ALU {
	return &ALU{width: width}
}

// Compute evaluates function fn on R and S with external carry-in c0.
func (a *ALU) Compute(fn insts.Function, r, s Word, c0 bool) ALUResult {
	mask := a.width.Mask()
	r &= mask
	s &= mask

	cin := 0
	if c0 {
		cin = 1
	}
	ri, si := int(r), int(s)

	var raw int
	sub := fn.IsSubtract()

	switch fn {
	case insts.FuncADD:
		raw = ri + si + cin
	case insts.FuncSUBR:
		raw = si - ri - 1 + cin
		// The carry chain sees R complemented.
		r = ^r & mask
	case insts.FuncSUBS:
		raw = ri - si - 1 + cin
		// The carry chain sees S complemented.
		s = ^s & mask
	case insts.FuncOR:
		raw = ri | si
	case insts.FuncAND:
		raw = ri & si
	case insts.FuncNOTRS:
		raw = ^ri & si
	case insts.FuncEXOR:
		raw = ri ^ si
	case insts.FuncEXNOR:
		raw = ^(ri ^ si)
	}

	f := Word(modulo(raw, a.width.Modulus()))

	return ALUResult{
		F: f,
		Flags: Flags{
			Zero:     f == 0,
			Sign:     f >= a.width.MSB(),
			Carry:    a.lookahead(r|s, r&s, sub),
			Overflow: fn == insts.FuncADD && a.overflow(r, s, f),
		},
	}
}

// lookahead runs the generate/propagate chain and returns the carry out of
// the most significant bit. The chain carry-in is forced by the subtract
// functions only; the external C0 pin never reaches it.
func (a *ALU) lookahead(p, g Word, cin bool) bool {
	carry := cin
	for i := Width(0); i < a.width; i++ {
		bit := Word(1) << i
		carry = g&bit != 0 || (p&bit != 0 && carry)
	}
	return carry
}

// overflow reports a sign change that two same-signed operands cannot
// produce. Only ADD gets here: OVR is low for the subtract and logic
// functions regardless of the operands.
func (a *ALU) overflow(r, s, f Word) bool {
	half := a.width.MSB()
	if r < half && s < half {
		return f >= half
	}
	if r >= half && s >= half {
		return f < half
	}
	return false
}

// modulo returns x mod m in [0, m).
func modulo(x, m int) int {
	x %= m
	if x < 0 {
		x += m
	}
	return x
}
