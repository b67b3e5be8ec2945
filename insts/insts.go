// Package insts provides bit-slice micro-instruction definitions and decoding.
//
// A micro-instruction is the 9-bit I vector of the chip, split into three
// 3-bit fields, plus the 2-bit shift link mode of the 8-bit slice:
//   - Source (I0-I2): which operands feed the ALU as R and S
//   - Function (I3-I5): which of the eight ALU functions is computed
//   - Destination (I6-I8): where the result goes and whether a shift occurs
//   - LinkMode (M0-M1): how vacated shift bits are refilled
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0o305) // RAMF ADD DA
//	fmt.Printf("%v\n", inst)
package insts

// Source selects the R and S operands of the ALU.
type Source uint8

// Operand sources. The mnemonic names the R operand then the S operand:
// A and B are register file words, Q the accumulator, D the data input and
// Z the constant zero.
const (
	SourceAQ Source = iota
	SourceAB
	SourceZQ
	SourceZB
	SourceZA
	SourceDA
	SourceDQ
	SourceDZ
)

// Function selects the ALU function.
type Function uint8

// ALU functions.
const (
	FuncADD   Function = iota // R + S + C0
	FuncSUBR                  // S - R - 1 + C0
	FuncSUBS                  // R - S - 1 + C0
	FuncOR                    // R | S
	FuncAND                   // R & S
	FuncNOTRS                 // ^R & S
	FuncEXOR                  // R ^ S
	FuncEXNOR                 // ^(R ^ S)
)

// Destination selects the result destination and shift.
type Destination uint8

// Result destinations.
const (
	DestQREG  Destination = iota // Q <- F, Y = F
	DestNOP                      // Y = F
	DestRAMA                     // B <- F, Y = A
	DestRAMF                     // B <- F, Y = F
	DestRAMQD                    // B <- F/2, Q <- Q/2, Y = F
	DestRAMD                     // B <- F/2, Y = F
	DestRAMQU                    // B <- 2F, Q <- 2Q, Y = F
	DestRAMU                     // B <- 2F, Y = F
)

// LinkMode selects how the bits vacated by a shift are refilled.
type LinkMode uint8

// Shift link modes.
const (
	LinkNone  LinkMode = iota // vacated bits stay 0
	LinkRot                   // register and accumulator rotate independently
	LinkCross                 // register and accumulator feed each other
	LinkFeed                  // register feeds the accumulator only
)

var sourceNames = [...]string{"AQ", "AB", "ZQ", "ZB", "ZA", "DA", "DQ", "DZ"}

var functionNames = [...]string{
	"ADD", "SUBR", "SUBS", "OR", "AND", "NOTRS", "EXOR", "EXNOR",
}

var destinationNames = [...]string{
	"QREG", "NOP", "RAMA", "RAMF", "RAMQD", "RAMD", "RAMQU", "RAMU",
}

var linkModeNames = [...]string{"NONE", "ROT", "CROSS", "FEED"}

func (s Source) String() string {
	if int(s) < len(sourceNames) {
		return sourceNames[s]
	}
	return "?"
}

func (f Function) String() string {
	if int(f) < len(functionNames) {
		return functionNames[f]
	}
	return "?"
}

func (d Destination) String() string {
	if int(d) < len(destinationNames) {
		return destinationNames[d]
	}
	return "?"
}

func (m LinkMode) String() string {
	if int(m) < len(linkModeNames) {
		return linkModeNames[m]
	}
	return "?"
}

// IsSubtract reports whether the function reuses the add carry network with
// one complemented operand.
func (f Function) IsSubtract() bool {
	return f == FuncSUBR || f == FuncSUBS
}

// Shifts reports whether the destination shifts the register path.
func (d Destination) Shifts() bool {
	return d >= DestRAMQD && d <= DestRAMU
}

// ShiftsLeft reports whether the destination is a left (up) shift.
func (d Destination) ShiftsLeft() bool {
	return d == DestRAMQU || d == DestRAMU
}

// ShiftsAccumulator reports whether the destination also shifts Q.
func (d Destination) ShiftsAccumulator() bool {
	return d == DestRAMQD || d == DestRAMQU
}

// MicroInstruction is a decoded micro-instruction.
type MicroInstruction struct {
	Source      Source      // I0-I2
	Function    Function    // I3-I5
	Destination Destination // I6-I8
	LinkMode    LinkMode    // M0-M1, 8-bit slice only
}

// String returns the instruction as "DST FN SRC", adding the link mode when
// it is not LinkNone.
func (m MicroInstruction) String() string {
	s := m.Destination.String() + " " + m.Function.String() + " " + m.Source.String()
	if m.LinkMode != LinkNone {
		s += " " + m.LinkMode.String()
	}
	return s
}
