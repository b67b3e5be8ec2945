// Package main provides accuracy validation for the event-driven datapath.
// Ensures that a single timed slice computes exactly what the functional
// chip model computes for the same instruction stream.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/insts"
	"github.com/sarchlab/slicesim/timing/core"
)

const (
	numSteps = 5000
	seed     = 1
)

// compareModels runs the same random stream on both models and reports the
// first divergence.
func compareModels(variant emu.Variant) bool {
	fmt.Printf("Comparing %s models...\n", variant)

	chip, err := emu.NewChip(variant)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	timed, err := core.NewCore(variant, 1, core.WithLogger(logger))
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
		return false
	}

	decoder := insts.NewDecoder()
	rng := rand.New(rand.NewSource(seed))
	mask := uint64(variant.Width.Mask())

	for i := 0; i < numSteps; i++ {
		inst := decoder.Decode(uint16(rng.Intn(1 << 11)))
		a, b := uint8(rng.Intn(emu.NumRegisters)), uint8(rng.Intn(emu.NumRegisters))
		d := rng.Uint64() & mask
		c0 := rng.Intn(2) == 1

		want := chip.Execute(emu.Inputs{Instruction: inst, A: a, B: b, D: emu.Word(d), C0: c0})
		got, err := timed.Execute(core.Input{Instruction: inst, A: a, B: b, D: d, C0: c0})
		if err != nil {
			fmt.Printf("  ❌ step %d: %v\n", i, err)
			return false
		}

		if got.Y != uint64(want.Y) || got.Flags != want.Flags {
			fmt.Printf("  ❌ step %d %s: Y=0x%X %+v, expected Y=0x%X %+v\n",
				i, inst, got.Y, got.Flags, want.Y, want.Flags)
			return false
		}

		for addr := uint8(0); addr < emu.NumRegisters; addr++ {
			if timed.Register(addr) != uint64(chip.RegFile().Read(addr)) {
				fmt.Printf("  ❌ step %d %s: R%d diverged\n", i, inst, addr)
				return false
			}
		}
		if timed.Accumulator() != uint64(chip.RegFile().Q) {
			fmt.Printf("  ❌ step %d %s: Q diverged\n", i, inst)
			return false
		}
	}

	fmt.Printf("  ✅ %d steps identical\n", numSteps)
	return true
}

func main() {
	fmt.Println("slicesim Accuracy Validation")
	fmt.Println("============================")

	ok := true
	for _, v := range []emu.Variant{emu.Slice4, emu.Slice8} {
		ok = compareModels(v) && ok
	}

	if !ok {
		os.Exit(1)
	}
}
