// Package main provides the entry point for slicesim.
// slicesim is an event-driven simulator of a 4-bit/8-bit bit-slice ALU
// chip built on Akita.
//
// For the full CLI, use: go run ./cmd/slicesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("slicesim - Bit-Slice ALU Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: slicesim [options] <microprogram>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -width     Slice word width (4 or 8)")
	fmt.Println("  -slices    Number of chained slices")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/slicesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/slicesim' instead.")
	}
}
