// Package emu provides functional emulation of a bit-slice ALU chip.
package emu

import (
	"errors"
	"fmt"
)

// ErrUnsupportedWidth is returned when a chip is built with a word width
// other than 4 or 8 bits.
var ErrUnsupportedWidth = errors.New("unsupported word width")

// Word is a register or operand value. Only the low Width bits are used.
type Word uint8

// Width is the word width of a slice in bits.
type Width uint8

// Supported word widths.
const (
	Width4 Width = 4
	Width8 Width = 8
)

// Validate checks that the width is one the chip exists in.
func (w Width) Validate() error {
	if w != Width4 && w != Width8 {
		return fmt.Errorf("%w: %d", ErrUnsupportedWidth, w)
	}
	return nil
}

// Modulus returns 2^W.
func (w Width) Modulus() int {
	return 1 << w
}

// Mask returns a word with all W bits set.
func (w Width) Mask() Word {
	return Word(uint16(1)<<w - 1)
}

// MSB returns a word with only bit W-1 set. As an unsigned value it is also
// MOD/2, the threshold of the sign flag.
func (w Width) MSB() Word {
	return Word(uint16(1) << (w - 1))
}

// Variant fixes the construction-time shape of a chip.
type Variant struct {
	// Width is the word width.
	Width Width
	// ShiftLink enables the M link-mode inputs and the boundary outputs.
	ShiftLink bool
}

// The two chip variants.
var (
	// Slice4 is the 4-bit slice. It shifts without link modes.
	Slice4 = Variant{Width: Width4}
	// Slice8 is the 8-bit slice with the shift-link network.
	Slice8 = Variant{Width: Width8, ShiftLink: true}
)

// Validate checks the variant.
func (v Variant) Validate() error {
	return v.Width.Validate()
}

func (v Variant) String() string {
	if v.ShiftLink {
		return fmt.Sprintf("%d-bit slice (linked shifts)", v.Width)
	}
	return fmt.Sprintf("%d-bit slice", v.Width)
}
