// Package main provides the entry point for the vector ALU reference model.
// The model is a bit-exact functional emulator for packed bf16, fp16,
// msfp16 and QALU registers.
//
// For the full CLI, use: go run ./cmd/valu
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	printUsage(os.Stdout)

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/valu' instead.")
	}
}

// printUsage lists the options accepted by cmd/valu.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "valu - packed vector ALU reference model")
	fmt.Fprintln(w, "Built on Akita simulation framework")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: valu [options] <program.json>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -config       Path to timing configuration JSON file")
	fmt.Fprintln(w, "  -timing       Enable pipelined timing mode")
	fmt.Fprintln(w, "  -issue-width  Instructions issued per cycle in timing mode")
	fmt.Fprintln(w, "  -trace        Print every retired instruction")
	fmt.Fprintln(w, "  -amplitudes   Decode q* registers as QALU amplitudes")
	fmt.Fprintln(w, "  -v            Verbose output")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'go run ./cmd/valu' for the full CLI.")
}
