// Package main provides a profiling wrapper for slicesim to identify performance bottlenecks.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/loader"
	"github.com/sarchlab/slicesim/timing/core"
)

var (
	functional = flag.Bool("functional", false, "Run the bare functional model instead of the timed datapath")
	slices     = flag.Int("slices", 2, "Number of chained 8-bit slices")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	repeat     = flag.Int("repeat", 10000, "number of passes over the microprogram")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <microprogram>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading microprogram: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded: %s (%d steps)\n", programPath, len(prog.Steps))

	start := time.Now()

	var steps uint64
	if *functional {
		steps, err = runFunctional(prog, *repeat)
	} else {
		steps, err = runTimed(prog, *slices, *repeat)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(start)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	fmt.Printf("\nProfiling Results:\n")
	fmt.Printf("Steps executed: %d\n", steps)
	fmt.Printf("Elapsed time: %v\n", elapsed)
	if steps > 0 {
		fmt.Printf("Steps/second: %.0f\n", float64(steps)/elapsed.Seconds())
	}
}

// runFunctional drives a single 8-bit chip directly, with no event engine.
func runFunctional(prog *loader.Program, repeat int) (uint64, error) {
	chip, err := emu.NewChip(emu.Slice8)
	if err != nil {
		return 0, err
	}

	var steps uint64
	for n := 0; n < repeat; n++ {
		for _, step := range prog.Steps {
			if step.Clear {
				chip.Clear()
				continue
			}
			chip.Execute(emu.Inputs{
				Instruction: step.Instruction,
				A:           step.A,
				B:           step.B,
				D:           emu.Word(step.D),
				C0:          step.C0,
			})
			steps++
		}
	}

	return steps, nil
}

// runTimed drives the event-driven datapath.
func runTimed(prog *loader.Program, n, repeat int) (uint64, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := core.NewCore(emu.Slice8, n, core.WithLogger(logger))
	if err != nil {
		return 0, err
	}

	for i := 0; i < repeat; i++ {
		for _, step := range prog.Steps {
			if step.Clear {
				err = c.Clear()
			} else {
				_, err = c.Execute(core.Input{
					Instruction: step.Instruction,
					A:           step.A,
					B:           step.B,
					D:           step.D,
					C0:          step.C0,
				})
			}
			if err != nil {
				return 0, fmt.Errorf("line %d: %w", step.Line, err)
			}
		}
	}

	return c.Stats().Cycles, nil
}
