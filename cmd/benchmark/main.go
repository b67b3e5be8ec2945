// Command benchmark runs the slicesim microprogram benchmark harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv      Output results in CSV format (default: human-readable)
//	-json     Output results in JSON format
//	-width    Slice word width (4 or 8)
//	-slices   Number of chained slices
//	-config   Path to timing configuration JSON file
//
// Example:
//
//	# Run all benchmarks on a 16-bit datapath
//	go run ./cmd/benchmark
//
//	# Output CSV for spreadsheet comparison
//	go run ./cmd/benchmark -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/slicesim/benchmarks"
	"github.com/sarchlab/slicesim/emu"
	"github.com/sarchlab/slicesim/timing/latency"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results in JSON format")
	width := flag.Int("width", 8, "Slice word width (4 or 8)")
	slices := flag.Int("slices", 2, "Number of chained slices")
	configPath := flag.String("config", "", "Path to timing configuration JSON file")
	flag.Parse()

	config := benchmarks.DefaultConfig()
	config.Slices = *slices
	config.Output = os.Stdout

	switch *width {
	case 4:
		config.Variant = emu.Slice4
	case 8:
		config.Variant = emu.Slice8
	default:
		fmt.Fprintf(os.Stderr, "Error: %v: %d\n", emu.ErrUnsupportedWidth, *width)
		os.Exit(1)
	}

	if *configPath != "" {
		timingConfig, err := latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		config.Timing = timingConfig
	}

	harness := benchmarks.NewHarness(config)
	harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())

	if !*csvOutput && !*jsonOutput {
		fmt.Println("slicesim Benchmark Harness")
		fmt.Println("==========================")
		fmt.Printf("Slice:  %s\n", config.Variant)
		fmt.Printf("Slices: %d\n", config.Slices)
		fmt.Println("")
	}

	results := harness.RunAll()

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}
