package benchmarks

import (
	"fmt"
	"strings"
)

// GetMicrobenchmarks returns the standard microprogram workloads.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		fibonacci(12),
		countDown(0x0155, 48),
		accumulate(32),
		logicMix(0xA5A5, 0x0FF0),
		clearReload(),
	}
}

// fibonacci alternates R0 <- R0+R1 and R1 <- R0+R1, leaving F(2n) in R0
// and F(2n+1) in R1.
func fibonacci(pairs int) Benchmark {
	var b strings.Builder
	b.WriteString("clear\n")
	b.WriteString("DZ ADD RAMF b=1 d=1\n")

	f0, f1 := uint64(0), uint64(1)
	for i := 0; i < pairs; i++ {
		b.WriteString("AB ADD RAMF a=1 b=0\n")
		b.WriteString("AB ADD RAMF a=0 b=1\n")
		f0 += f1
		f1 += f0
	}

	return Benchmark{
		Name:        "fibonacci",
		Description: "Dependent register-to-register adds with carries between slices",
		Source:      b.String(),
		Registers:   map[uint8]uint64{0: f0, 1: f1},
	}
}

// countDown subtracts 1 from R2 n times. Borrows out of the low nibble must
// land on a nonzero nibble: a zero middle slice drops an incoming borrow, so
// the standard range 0x0155..0x0125 stays exact on any slice count.
func countDown(start uint64, n int) Benchmark {
	var b strings.Builder
	b.WriteString("clear\n")
	fmt.Fprintf(&b, "DZ ADD RAMF b=2 d=0x%X\n", start)
	for i := 0; i < n; i++ {
		b.WriteString("DA SUBR RAMF a=2 b=2 d=1 c0=1\n")
	}

	return Benchmark{
		Name:        "count_down",
		Description: "Decrement chain through the subtract carry network",
		Source:      b.String(),
		Registers:   map[uint8]uint64{2: start - uint64(n)},
	}
}

// accumulate sums 1..n into Q through the D bus.
func accumulate(n int) Benchmark {
	var b strings.Builder
	b.WriteString("clear\n")

	sum := uint64(0)
	for k := 1; k <= n; k++ {
		fmt.Fprintf(&b, "DQ ADD QREG d=%d\n", k)
		sum += uint64(k)
	}

	return Benchmark{
		Name:        "accumulate",
		Description: "Accumulator updates fed from the external data bus",
		Source:      b.String(),
		Accumulator: &sum,
	}
}

// logicMix applies every logic function to R3 and Q.
func logicMix(x, y uint64) Benchmark {
	src := fmt.Sprintf(`clear
DZ ADD RAMF b=3 d=0x%X
DZ ADD RAMF b=4 d=0x%X
ZA OR QREG a=4
AQ AND RAMF a=3 b=5
AQ EXOR RAMF a=3 b=6
AQ NOTRS RAMF a=3 b=7
AQ EXNOR RAMF a=3 b=8
AQ OR RAMF a=3 b=9
ZA OR RAMF a=3 b=10
`, x, y)

	return Benchmark{
		Name:        "logic_mix",
		Description: "Logic functions and register moves",
		Source:      src,
		Registers: map[uint8]uint64{
			5:  x & y,
			6:  x ^ y,
			7:  ^x & y,
			8:  ^(x ^ y),
			9:  x | y,
			10: x,
		},
		Accumulator: &y,
	}
}

// clearReload fills registers, clears the chip and loads one register back.
func clearReload() Benchmark {
	q := uint64(0)
	return Benchmark{
		Name:        "clear_reload",
		Description: "OE clear between computing cycles",
		Source: `DZ ADD RAMF b=1 d=0x1234
DZ ADD RAMF b=2 d=0x5678
DZ ADD QREG d=0x9ABC
clear
DZ ADD RAMF b=1 d=7
`,
		Registers:   map[uint8]uint64{1: 7, 2: 0},
		Accumulator: &q,
	}
}
