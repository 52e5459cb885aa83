// Package main provides a profiling wrapper that replays a program many
// times to find hot spots in the format codecs.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/sarchlab/valu/emu"
	"github.com/sarchlab/valu/loader"
	"github.com/sarchlab/valu/timing/pipeline"
)

var (
	timing     = flag.Bool("timing", false, "Replay on the pipeline model instead of the emulator")
	cpuProfile = flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile = flag.String("memprofile", "", "write memory profile to file")
	iterations = flag.Int("iterations", 100000, "number of times to replay the program")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: profile [options] <program.json>\n")
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

	fmt.Printf("Loaded: %s (%d instructions)\n", programPath, len(prog.Instructions))

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

	start := time.Now()
	executed, err := replay(prog, *iterations)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	fmt.Printf("\nIterations: %d\n", *iterations)
	fmt.Printf("Instructions executed: %d\n", executed)
	fmt.Printf("Elapsed: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("Throughput: %.0f inst/s\n", float64(executed)/elapsed.Seconds())
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}
}

// replay runs prog n times from its initial registers and returns the total
// number of instructions executed.
func replay(prog *loader.Program, n int) (uint64, error) {
	var executed uint64

	for i := 0; i < n; i++ {
		if *timing {
			pipe := pipeline.NewPipeline(prog.RegFile())
			err := pipe.Run(prog.Instructions)
			executed += pipe.Stats().Instructions
			if err != nil {
				return executed, err
			}
			continue
		}

		e := emu.NewEmulator(emu.WithRegFile(prog.RegFile()))
		err := e.Run(prog.Instructions)
		executed += e.Stats().Instructions
		if err != nil {
			return executed, err
		}
	}

	return executed, nil
}
