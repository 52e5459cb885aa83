// Package main provides the entry point for the vector ALU reference model.
// It loads a JSON program, runs it and prints the final register file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/valu/emu"
	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/loader"
	"github.com/sarchlab/valu/numfmt"
	"github.com/sarchlab/valu/timing/latency"
	"github.com/sarchlab/valu/timing/pipeline"
)

var (
	timing     = flag.Bool("timing", false, "Enable pipelined timing mode")
	issueWidth = flag.Int("issue-width", 1, "Instructions issued per cycle in timing mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	verbose    = flag.Bool("v", false, "Verbose output")
	trace      = flag.Bool("trace", false, "Print every retired instruction")
	amplitudes = flag.Bool("amplitudes", false, "Decode q* registers as QALU amplitudes")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: valu [options] <program.json>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Registers: %d\n", len(prog.Registers))
		fmt.Printf("Instructions: %d\n", len(prog.Instructions))
	}

	timingConfig, err := loadTimingConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
		os.Exit(1)
	}

	if *timing {
		os.Exit(runTiming(prog, timingConfig, os.Stdout, os.Stderr))
	}
	os.Exit(run(prog, timingConfig, os.Stdout, os.Stderr))
}

// loadTimingConfig returns the defaults for an empty path, otherwise the
// file's config after validation.
func loadTimingConfig(path string) (*latency.TimingConfig, error) {
	if path == "" {
		return latency.DefaultTimingConfig(), nil
	}

	config, err := latency.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config %s: %w", path, err)
	}

	return config, nil
}

// run executes prog and prints the final registers. It returns the process
// exit code.
func run(prog *loader.Program, config *latency.TimingConfig, stdout, stderr io.Writer) int {
	emulator := emu.NewEmulator(
		emu.WithRegFile(prog.RegFile()),
		emu.WithLatencyTable(latency.NewTableWithConfig(config)),
	)

	if *trace {
		emulator.AcceptHook(&tracer{out: stderr})
	}

	exitCode := 0
	if err := emulator.Run(prog.Instructions); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
	}

	writeRegisters(stdout, emulator.RegFile(), *amplitudes)

	if *verbose {
		stats := emulator.Stats()
		fmt.Fprintf(stdout, "\nInstructions executed: %d\n", stats.Instructions)
		fmt.Fprintf(stdout, "Failed instructions: %d\n", stats.Failures)
		fmt.Fprintf(stdout, "Cycles: %d\n", stats.Cycles)
	}

	return exitCode
}

// runTiming executes prog on the in-order pipeline model and prints the
// final registers followed by the timing statistics.
func runTiming(prog *loader.Program, config *latency.TimingConfig, stdout, stderr io.Writer) int {
	pipe := pipeline.NewPipeline(
		prog.RegFile(),
		pipeline.WithLatencyTable(latency.NewTableWithConfig(config)),
		pipeline.WithSuperscalar(pipeline.SuperscalarConfig{IssueWidth: *issueWidth}),
	)

	exitCode := 0
	if err := pipe.Run(prog.Instructions); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = 1
	}

	writeRegisters(stdout, pipe.RegFile(), *amplitudes)

	stats := pipe.Stats()
	fmt.Fprintf(stdout, "\nTiming statistics:\n")
	fmt.Fprintf(stdout, "  Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(stdout, "  Cycles:       %d\n", stats.Cycles)
	fmt.Fprintf(stdout, "  CPI:          %.3f\n", stats.CPI())
	fmt.Fprintf(stdout, "  Stalls:       %d\n", stats.Stalls)
	fmt.Fprintf(stdout, "  Data hazards: %d\n", stats.DataHazards)
	if *issueWidth > 1 {
		fmt.Fprintf(stdout, "  Multi-issued: %d\n", stats.MultiIssued)
	}

	return exitCode
}

// writeRegisters prints one register per line in name order. With decode
// set, q* registers are also shown as tag and complex amplitude.
func writeRegisters(w io.Writer, rf *emu.RegFile, decode bool) {
	for _, name := range rf.Names() {
		v, _ := rf.ReadReg(name)
		fmt.Fprintf(w, "%-4s = 0x%016x", name, v)

		if decode && strings.HasPrefix(name, "q") {
			amp := numfmt.UnpackAmplitude(v)
			fmt.Fprintf(w, "  tag=%d amp=%+.9f%+.9fi", amp.Tag, amp.Real, amp.Imag)
		}

		fmt.Fprintln(w)
	}
}

// tracer prints retired and failed instructions.
type tracer struct {
	out io.Writer
}

func (t *tracer) Func(ctx sim.HookCtx) {
	inst, ok := ctx.Item.(*insts.Instruction)
	if !ok {
		return
	}

	switch ctx.Pos {
	case emu.HookPosInstRetired:
		r := ctx.Detail.(emu.Retirement)
		fmt.Fprintf(t.out, "%-32s %s <- 0x%016x (%d cycles)\n",
			inst, r.Dst, r.Value, r.Cycles)
	case emu.HookPosInstFailed:
		fmt.Fprintf(t.out, "%-32s failed: %v\n", inst, ctx.Detail)
	}
}
