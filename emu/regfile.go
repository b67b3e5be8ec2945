// Package emu provides functional emulation of a bit-slice ALU chip.
package emu

// NumRegisters is the size of the register file.
const NumRegisters = 16

const addrMask = NumRegisters - 1

// RegFile represents the chip's register state.
// It contains the 16 general-purpose registers addressed by A and B
// and the accumulator Q.
type RegFile struct {
	// R holds the general-purpose registers.
	R [NumRegisters]Word

	// Q is the accumulator.
	Q Word

	width Width
}

// NewRegFile creates a zeroed register file for the given word width.
func NewRegFile(width Width) *RegFile {
	return &RegFile{width: width}
}

// Width returns the word width the register file masks writes to.
func (r *RegFile) Width() Width {
	return r.width
}

// Read reads a register. Only the low 4 bits of the address are used.
func (r *RegFile) Read(addr uint8) Word {
	return r.R[addr&addrMask]
}

// Write writes a register, truncating the value to the word width.
func (r *RegFile) Write(addr uint8, value Word) {
	r.R[addr&addrMask] = value & r.width.Mask()
}

// SetQ writes the accumulator, truncating the value to the word width.
func (r *RegFile) SetQ(value Word) {
	r.Q = value & r.width.Mask()
}

// Clear zeroes every register and the accumulator.
func (r *RegFile) Clear() {
	r.R = [NumRegisters]Word{}
	r.Q = 0
}
