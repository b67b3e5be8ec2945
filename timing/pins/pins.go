// Package pins models the named digital pins of a slice and converts between
// pin vectors and words.
package pins

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrUnknownPin is returned when a pin name is not part of a bank.
var ErrUnknownPin = errors.New("unknown pin")

// Level is the logic level of a pin.
type Level uint8

// Logic levels.
const (
	Low Level = iota
	High
)

// LevelOf converts a bool to a Level.
func LevelOf(b bool) Level {
	if b {
		return High
	}
	return Low
}

// Bool reports whether the level is High.
func (l Level) Bool() bool {
	return l == High
}

func (l Level) String() string {
	if l == High {
		return "H"
	}
	return "L"
}

// Single-bit pin names.
const (
	OE  = "OE"
	CLK = "CLK"
	C0  = "C0"

	Z   = "Z"
	F3  = "F3"
	C4  = "C4"
	OVR = "OVR"

	// Shift boundary outputs of the 8-bit slice.
	RAML = "RAML"
	RAMH = "RAMH"
	QL   = "QL"
	QH   = "QH"
)

// Bus name prefixes and fixed widths.
const (
	I = "I"
	A = "A"
	B = "B"
	D = "D"
	Y = "Y"
	M = "M"

	IWidth    = 9
	AddrWidth = 4
	MWidth    = 2
)

// BusNames returns the pin names prefix0 .. prefix{n-1}, LSB first.
func BusNames(prefix string, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = prefix + strconv.Itoa(i)
	}
	return names
}

// InputNames returns the input pins of a slice of the given word width.
func InputNames(width int, linked bool) []string {
	names := []string{OE, CLK, C0}
	names = append(names, BusNames(I, IWidth)...)
	names = append(names, BusNames(A, AddrWidth)...)
	names = append(names, BusNames(B, AddrWidth)...)
	names = append(names, BusNames(D, width)...)
	if linked {
		names = append(names, BusNames(M, MWidth)...)
	}
	return names
}

// OutputNames returns the output pins of a slice of the given word width.
func OutputNames(width int, linked bool) []string {
	names := BusNames(Y, width)
	names = append(names, Z, F3, C4, OVR)
	if linked {
		names = append(names, RAML, RAMH, QL, QH)
	}
	return names
}

// Bank holds the levels of a fixed set of named pins. All pins start Low.
type Bank struct {
	levels map[string]Level
}

// NewBank creates a bank with the given pins.
func NewBank(names ...string) *Bank {
	b := &Bank{levels: make(map[string]Level, len(names))}
	for _, n := range names {
		b.levels[n] = Low
	}
	return b
}

// Has reports whether the bank contains the pin.
func (b *Bank) Has(name string) bool {
	_, ok := b.levels[name]
	return ok
}

// Names returns the pin names in sorted order.
func (b *Bank) Names() []string {
	names := make([]string, 0, len(b.levels))
	for n := range b.levels {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the level of a pin.
func (b *Bank) Get(name string) (Level, error) {
	l, ok := b.levels[name]
	if !ok {
		return Low, fmt.Errorf("%w %q", ErrUnknownPin, name)
	}
	return l, nil
}

// IsHigh reports whether a pin is High. Unknown pins read Low.
func (b *Bank) IsHigh(name string) bool {
	return b.levels[name] == High
}

// Set sets the level of a pin and reports whether it changed.
func (b *Bank) Set(name string, l Level) (bool, error) {
	old, ok := b.levels[name]
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownPin, name)
	}
	b.levels[name] = l
	return old != l, nil
}

// Word assembles the n-bit value on prefix0 .. prefix{n-1}, LSB first.
func (b *Bank) Word(prefix string, n int) (uint16, error) {
	var v uint16
	for i, name := range BusNames(prefix, n) {
		l, err := b.Get(name)
		if err != nil {
			return 0, err
		}
		if l == High {
			v |= 1 << i
		}
	}
	return v, nil
}

// SetWord drives the n-bit value v onto prefix0 .. prefix{n-1}.
func (b *Bank) SetWord(prefix string, n int, v uint16) error {
	for _, bit := range Split(prefix, n, v) {
		if _, err := b.Set(bit.Name, bit.Level); err != nil {
			return err
		}
	}
	return nil
}

// Bit is one pin of a bus and the level it carries.
type Bit struct {
	Name  string
	Level Level
}

// Split returns the levels that put v on prefix0 .. prefix{n-1}, LSB first.
// Bits of v at and above n are dropped.
func Split(prefix string, n int, v uint16) []Bit {
	bits := make([]Bit, n)
	for i, name := range BusNames(prefix, n) {
		bits[i] = Bit{Name: name, Level: LevelOf(v&(1<<i) != 0)}
	}
	return bits
}
