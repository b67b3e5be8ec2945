// Package loader provides loading of text microprograms.
//
// A microprogram has one step per line. Blank lines and text after '#' are
// ignored. A step names the source, function and destination mnemonics
// followed by optional key=value operands:
//
//	DZ ADD RAMF b=3 d=0x1234     # R3 <- 0x1234
//	AB SUBS QREG a=3 b=4 c0=1    # Q <- R3 - R4
//	ZA ADD RAMQD a=3 b=3 m=CROSS # shift R3:Q right
//	clear                        # pulse OE
//
// Numbers accept the 0x, 0o and 0b prefixes. A d value wider than the
// datapath it runs on is truncated to that width.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/slicesim/insts"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("syntax error")

// Step is one line of a microprogram.
type Step struct {
	// Line is the 1-based source line.
	Line int
	// Clear requests an OE pulse instead of an instruction.
	Clear bool

	Instruction insts.MicroInstruction
	A, B        uint8
	D           uint64
	C0          bool
}

// Program is a parsed microprogram.
type Program struct {
	// Path is the file the program was loaded from, if any.
	Path  string
	Steps []Step
}

// Load reads and parses a microprogram file.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open microprogram: %w", err)
	}
	defer func() { _ = f.Close() }()

	prog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prog.Path = path

	return prog, nil
}

// Parse parses a microprogram from r.
func Parse(r io.Reader) (*Program, error) {
	decoder := insts.NewDecoder()
	prog := &Program{}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		step, err := parseStep(decoder, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", line, ErrSyntax, err)
		}
		step.Line = line
		prog.Steps = append(prog.Steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read microprogram: %w", err)
	}

	return prog, nil
}

func parseStep(decoder *insts.Decoder, fields []string) (Step, error) {
	var step Step

	if len(fields) == 1 && strings.EqualFold(fields[0], "clear") {
		step.Clear = true
		return step, nil
	}

	if len(fields) < 3 {
		return step, fmt.Errorf("expected SRC FN DST, got %q", strings.Join(fields, " "))
	}

	inst, err := decoder.Parse(fields[:3]...)
	if err != nil {
		return step, err
	}
	step.Instruction = inst

	for _, f := range fields[3:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return step, fmt.Errorf("expected key=value, got %q", f)
		}

		switch strings.ToLower(key) {
		case "a":
			step.A, err = parseAddr(value)
		case "b":
			step.B, err = parseAddr(value)
		case "d":
			step.D, err = strconv.ParseUint(value, 0, 64)
		case "c0":
			step.C0, err = parseBit(value)
		case "m":
			step.Instruction.LinkMode, err = insts.ParseLinkMode(value)
		default:
			err = fmt.Errorf("unknown operand %q", key)
		}
		if err != nil {
			return step, fmt.Errorf("%s: %w", key, err)
		}
	}

	return step, nil
}

func parseAddr(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, err
	}
	if v > 15 {
		return 0, fmt.Errorf("register %d out of range 0-15", v)
	}
	return uint8(v), nil
}

func parseBit(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("expected 0 or 1, got %q", s)
	}
}
