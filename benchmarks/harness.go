// Package benchmarks provides a microprogram benchmark harness for slicesim.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/loader"
	"github.com/sarchlab/slicesim/timing/core"
	"github.com/sarchlab/slicesim/timing/latency"
)

// BenchmarkResult holds the results for a single benchmark run.
type BenchmarkResult struct {
	// Name identifies the benchmark
	Name string `json:"name"`

	// Description explains what the benchmark exercises
	Description string `json:"description"`

	// Steps is the number of microprogram lines executed
	Steps int `json:"steps"`

	// Cycles is the number of computing clock cycles
	Cycles uint64 `json:"cycles"`

	// Clears is the number of OE pulses
	Clears uint64 `json:"clears"`

	// SimulatedNs is the virtual time consumed, in nanoseconds
	SimulatedNs float64 `json:"simulated_ns"`

	// Passed reports whether every expected register value matched
	Passed bool `json:"passed"`

	// Error describes the first failure, if any
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single microprogram workload.
type Benchmark struct {
	// Name identifies the benchmark
	Name string

	// Description explains what the benchmark exercises
	Description string

	// Source is the microprogram text
	Source string

	// Registers holds the expected final register values. Values are
	// truncated to the datapath width before comparison.
	Registers map[uint8]uint64

	// Accumulator is the expected final Q value, if non-nil
	Accumulator *uint64
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Variant is the slice type
	Variant emu.Variant

	// Slices is the number of chained slices
	Slices int

	// Timing overrides the default timing configuration, if non-nil
	Timing *latency.TimingConfig

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose enables per-cycle debug logging
	Verbose bool
}

// DefaultConfig returns a default harness configuration: two 8-bit slices.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Variant: emu.Slice8,
		Slices:  2,
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs benchmarks and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a benchmark to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple benchmarks to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all benchmarks and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

func (h *Harness) newCore() (*core.Core, error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if h.config.Verbose {
		logger.SetOutput(h.config.Output)
		logger.SetLevel(logrus.DebugLevel)
	}

	opts := []core.Option{core.WithLogger(logger)}
	if h.config.Timing != nil {
		opts = append(opts, core.WithLatencyTable(latency.NewTableWithConfig(h.config.Timing)))
	}

	return core.NewCore(h.config.Variant, h.config.Slices, opts...)
}

func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	prog, err := loader.Parse(strings.NewReader(bench.Source))
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Steps = len(prog.Steps)

	c, err := h.newCore()
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	err = execute(c, prog)
	result.WallTime = time.Since(start)

	stats := c.Stats()
	result.Cycles = stats.Cycles
	result.Clears = stats.Clears
	result.SimulatedNs = float64(c.Now()) * 1e9

	if err == nil {
		err = verify(c, bench)
	}
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Passed = true
	return result
}

func execute(c *core.Core, prog *loader.Program) error {
	for _, step := range prog.Steps {
		var err error
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
			return fmt.Errorf("line %d: %w", step.Line, err)
		}
	}
	return nil
}

func verify(c *core.Core, bench Benchmark) error {
	mask := ^uint64(0)
	if c.Bits() < 64 {
		mask = uint64(1)<<c.Bits() - 1
	}

	for addr := uint8(0); addr < emu.NumRegisters; addr++ {
		want, ok := bench.Registers[addr]
		if !ok {
			continue
		}
		if got := c.Register(addr); got != want&mask {
			return fmt.Errorf("R%d = 0x%X, expected 0x%X", addr, got, want&mask)
		}
	}

	if bench.Accumulator != nil {
		if got := c.Accumulator(); got != *bench.Accumulator&mask {
			return fmt.Errorf("Q = 0x%X, expected 0x%X", got, *bench.Accumulator&mask)
		}
	}

	return nil
}

// PrintResults outputs benchmark results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== slicesim Benchmark Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}

		_, _ = fmt.Fprintf(h.config.Output, "Benchmark: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Steps:          %d\n", r.Steps)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles:         %d\n", r.Cycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Clears:         %d\n", r.Clears)
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Time: %.1f ns\n", r.SimulatedNs)
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs benchmark results in CSV format.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "name,steps,cycles,clears,simulated_ns,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%d,%.1f,%t\n",
			r.Name,
			r.Steps,
			r.Cycles,
			r.Clears,
			r.SimulatedNs,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete JSON output format.
type BenchmarkReport struct {
	Metadata ReportMetadata    `json:"metadata"`
	Results  []BenchmarkResult `json:"results"`
	Summary  ReportSummary     `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Variant names the slice type
	Variant string `json:"variant"`

	// Bits is the datapath width
	Bits int `json:"bits"`
}

// ReportSummary contains aggregate statistics across all benchmarks.
type ReportSummary struct {
	TotalBenchmarks int           `json:"total_benchmarks"`
	Passed          int           `json:"passed"`
	TotalCycles     uint64        `json:"total_cycles"`
	TotalWallTime   time.Duration `json:"total_wall_time_ns"`
}

// PrintJSON outputs benchmark results in JSON format.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	summary := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		summary.TotalCycles += r.Cycles
		summary.TotalWallTime += r.WallTime
		if r.Passed {
			summary.Passed++
		}
	}

	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Variant:   h.config.Variant.String(),
			Bits:      h.config.Slices * int(h.config.Variant.Width),
		},
		Results: results,
		Summary: summary,
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
