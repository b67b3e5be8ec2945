// Package main provides the entry point for slicesim.
// slicesim runs a microprogram on a datapath of emulated bit-slice ALUs.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/loader"
	"github.com/sarchlab/slicesim/timing/core"
	"github.com/sarchlab/slicesim/timing/latency"
)

var (
	width      = flag.Int("width", 8, "Slice word width (4 or 8)")
	slices     = flag.Int("slices", 1, "Number of chained slices")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: slicesim [options] <microprogram>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading microprogram: %v\n", err)
		os.Exit(1)
	}

	timingConfig := latency.DefaultTimingConfig()
	if *configPath != "" {
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
	}

	variant, err := variantFor(*width)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c, err := core.NewCore(variant, *slices,
		core.WithLatencyTable(latency.NewTableWithConfig(timingConfig)),
		core.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating datapath: %v\n", err)
		os.Exit(1)
	}

	logger.WithFields(logrus.Fields{
		"program": programPath,
		"steps":   len(prog.Steps),
		"bits":    c.Bits(),
	}).Debug("Microprogram loaded")

	if err := run(prog, c, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// variantFor maps the -width flag to a chip variant.
func variantFor(w int) (emu.Variant, error) {
	switch w {
	case 4:
		return emu.Slice4, nil
	case 8:
		return emu.Slice8, nil
	default:
		return emu.Variant{}, fmt.Errorf("%w: %d", emu.ErrUnsupportedWidth, w)
	}
}

// run executes every step of prog and prints a trace, the final register
// state and statistics to w.
func run(prog *loader.Program, c *core.Core, w io.Writer) error {
	digits := (c.Bits() + 3) / 4

	for _, step := range prog.Steps {
		if step.Clear {
			if err := c.Clear(); err != nil {
				return fmt.Errorf("line %d: %w", step.Line, err)
			}
			fmt.Fprintf(w, "%4d  CLEAR\n", step.Line)
			continue
		}

		res, err := c.Execute(core.Input{
			Instruction: step.Instruction,
			A:           step.A,
			B:           step.B,
			D:           step.D,
			C0:          step.C0,
		})
		if err != nil {
			return fmt.Errorf("line %d: %w", step.Line, err)
		}

		fmt.Fprintf(w, "%4d  %-22s Y=%0*X  %s\n",
			step.Line, step.Instruction, digits, res.Y, flagString(res.Flags))
	}

	fmt.Fprintf(w, "\nRegisters:\n")
	for addr := uint8(0); addr < emu.NumRegisters; addr++ {
		fmt.Fprintf(w, "  R%-2d = %0*X\n", addr, digits, c.Register(addr))
	}
	fmt.Fprintf(w, "  Q   = %0*X\n", digits, c.Accumulator())

	stats := c.Stats()
	fmt.Fprintf(w, "\nCycles: %d\n", stats.Cycles)
	fmt.Fprintf(w, "Clears: %d\n", stats.Clears)

	return nil
}

func flagString(f emu.Flags) string {
	b := []byte("----")
	if f.Zero {
		b[0] = 'Z'
	}
	if f.Sign {
		b[1] = 'N'
	}
	if f.Carry {
		b[2] = 'C'
	}
	if f.Overflow {
		b[3] = 'V'
	}
	return string(b)
}
