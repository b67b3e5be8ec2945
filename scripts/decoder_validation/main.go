// Validate the micro-instruction decoder: every 11-bit word must survive
// Decode, Encode and a mnemonic round trip, without allocating on Decode.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sarchlab/slicesim/insts"
)

const numWords = 1 << 11

func main() {
	decoder := insts.NewDecoder()

	failures := 0
	for w := 0; w < numWords; w++ {
		word := uint16(w)
		inst := decoder.Decode(word)

		if got := inst.Encode(); got != word {
			fmt.Printf("encode mismatch: 0x%03X -> %s -> 0x%03X\n", word, inst, got)
			failures++
			continue
		}

		// String prints DST FN SRC; Parse wants SRC FN DST.
		fields := strings.Fields(inst.String())
		fields[0], fields[2] = fields[2], fields[0]
		parsed, err := decoder.Parse(fields...)
		if err != nil || parsed != inst {
			fmt.Printf("parse mismatch: 0x%03X %s -> %+v (%v)\n", word, inst, parsed, err)
			failures++
		}
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		decoder.Decode(uint16(i % numWords))
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 1000

	for i := 0; i < iterations; i++ {
		for w := 0; w < numWords; w++ {
			decoder.Decode(uint16(w))
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * numWords
	allocations := m2.Mallocs - m1.Mallocs

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Words checked: %d\n", numWords)
	fmt.Printf("Round-trip failures: %d\n", failures)
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)

	if failures > 0 {
		os.Exit(1)
	}
}
