// Package main provides a pointer to the memory hierarchy simulator's
// entry point.
//
// For the full CLI, use: go run ./cmd/memsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("memsim - cycle-accurate memory hierarchy simulator")
	fmt.Println("")
	fmt.Println("Usage: memsim [options] <levels> <b1> <b2> <trace> <memin> <memout> <l1> <l2way0> <l2way1> <stats>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to hierarchy configuration file (JSON or YAML)")
	fmt.Println("  -sweep     Run a parameter sweep instead: \"l1\" or \"l2\"")
	fmt.Println("  -from      Sweep range start")
	fmt.Println("  -to        Sweep range end")
	fmt.Println("  -version   Print version information and exit")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/memsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/memsim' instead.")
	}
}
