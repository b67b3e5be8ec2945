// Package insts provides bit-slice micro-instruction definitions and decoding.
package insts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMnemonic is returned when a mnemonic does not name a field value.
var ErrUnknownMnemonic = errors.New("unknown mnemonic")

// Bit layout of an encoded micro-instruction word.
const (
	sourceShift      = 0 // I0-I2
	functionShift    = 3 // I3-I5
	destinationShift = 6 // I6-I8
	linkModeShift    = 9 // M0-M1

	fieldMask    = 0b111
	linkModeMask = 0b11
)

// Decoder decodes micro-instruction words.
type Decoder struct{}

// NewDecoder creates a new micro-instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode splits an encoded word into its fields. Bits 0-8 are the I vector,
// bits 9-10 the link mode. Higher bits are ignored.
func (d *Decoder) Decode(word uint16) MicroInstruction {
	return MicroInstruction{
		Source:      Source((word >> sourceShift) & fieldMask),
		Function:    Function((word >> functionShift) & fieldMask),
		Destination: Destination((word >> destinationShift) & fieldMask),
		LinkMode:    LinkMode((word >> linkModeShift) & linkModeMask),
	}
}

// Encode packs the instruction back into the word layout used by Decode.
func (m MicroInstruction) Encode() uint16 {
	return uint16(m.Source&fieldMask)<<sourceShift |
		uint16(m.Function&fieldMask)<<functionShift |
		uint16(m.Destination&fieldMask)<<destinationShift |
		uint16(m.LinkMode&linkModeMask)<<linkModeShift
}

// Parse builds a micro-instruction from mnemonics in "SRC FN DST [LINK]"
// order, e.g. Parse("DA", "ADD", "RAMF"). Matching is case-insensitive.
func (d *Decoder) Parse(fields ...string) (MicroInstruction, error) {
	var m MicroInstruction

	if len(fields) < 3 || len(fields) > 4 {
		return m, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}

	src, err := lookup(sourceNames[:], fields[0])
	if err != nil {
		return m, fmt.Errorf("source: %w", err)
	}
	fn, err := lookup(functionNames[:], fields[1])
	if err != nil {
		return m, fmt.Errorf("function: %w", err)
	}
	dst, err := lookup(destinationNames[:], fields[2])
	if err != nil {
		return m, fmt.Errorf("destination: %w", err)
	}

	m.Source = Source(src)
	m.Function = Function(fn)
	m.Destination = Destination(dst)

	if len(fields) == 4 {
		mode, err := ParseLinkMode(fields[3])
		if err != nil {
			return m, err
		}
		m.LinkMode = mode
	}

	return m, nil
}

// ParseLinkMode accepts a link mode mnemonic or its number (0-3).
func ParseLinkMode(s string) (LinkMode, error) {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '3' {
		return LinkMode(s[0] - '0'), nil
	}
	mode, err := lookup(linkModeNames[:], s)
	if err != nil {
		return LinkNone, fmt.Errorf("link mode: %w", err)
	}
	return LinkMode(mode), nil
}

func lookup(names []string, s string) (uint8, error) {
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownMnemonic, s)
}
