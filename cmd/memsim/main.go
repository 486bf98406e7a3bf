// Package main provides the entry point for the memory hierarchy
// simulator: a cycle-accurate L1/L2/main-memory cache chain driven by a
// CPU instruction trace.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/xid"

	"github.com/archsim/memhier/mem"
	"github.com/archsim/memhier/report"
	"github.com/archsim/memhier/sweep"
	"github.com/archsim/memhier/trace"
)

// Version is the simulator's own release version, parsed and printed by
// -version.
const Version = "1.0.0"

var (
	verbose    = flag.Bool("v", false, "Verbose output")
	showVer    = flag.Bool("version", false, "Print version information and exit")
	configPath = flag.String("config", "", "Path to hierarchy configuration file (JSON or YAML)")
	sweepMode  = flag.String("sweep", "", "Run a parameter sweep instead of a single simulation: \"l1\" or \"l2\"")
	sweepFrom  = flag.Int("from", 0, "Sweep range start (block size in bytes)")
	sweepTo    = flag.Int("to", 0, "Sweep range end (block size in bytes)")
)

func main() {
	flag.Parse()

	if *showVer {
		printVersion()
		return
	}

	if *sweepMode != "" {
		os.Exit(runSweep())
	}

	os.Exit(runSimulation())
}

func printVersion() {
	v, err := semver.NewVersion(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid built-in version %q: %v\n", Version, err)
		os.Exit(1)
	}
	fmt.Printf("memsim %s (trace format %s)\n", v, trace.FormatVersion)
}

func loadConfig() (mem.HierarchyConfig, error) {
	if *configPath == "" {
		return mem.DefaultHierarchyConfig(), nil
	}
	return mem.LoadHierarchyConfig(*configPath)
}

func runSimulation() int {
	if flag.NArg() != 10 {
		fmt.Fprintf(os.Stderr, "Usage: memsim [options] <levels> <b1> <b2> <trace> <memin> <memout> <l1> <l2way0> <l2way1> <stats>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		return 1
	}

	args, err := parsePositionalArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	runID := xid.New()
	if *verbose {
		fmt.Printf("run %s: levels=%d b1=%d b2=%d\n", runID, args.levels, args.b1, args.b2)
	}

	h, err := mem.NewHierarchy(args.levels, args.b1, args.b2, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := h.MainMemory.LoadMemIn(args.memin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	insts, err := trace.Read(args.trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	result, err := trace.Run(insts, h.Head)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := trace.DumpHierarchy(h, trace.DumpFiles{
		MemOut: args.memout,
		L1:     args.l1,
		L2Way0: args.l2way0,
		L2Way1: args.l2way1,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	summary := report.Summarize(result.TotalCycles, h.L1.Stats(), l2Stats(h), h.L2 != nil, result.MemCycles, result.MemInstructions)
	if err := report.Write(args.stats, summary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *verbose {
		fmt.Printf("run %s: %d instructions, %d cycles, AMAT %.4f\n", runID, len(insts), result.TotalCycles, summary.AMAT)
	}

	return 0
}

func runSweep() int {
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: memsim -sweep l1|l2 -from N -to N <trace> <memin>\n")
		return 1
	}
	if *sweepMode != "l1" && *sweepMode != "l2" {
		fmt.Fprintf(os.Stderr, "Error: %v: -sweep must be \"l1\" or \"l2\", got %q\n", mem.ErrInvalidArgs, *sweepMode)
		return 1
	}

	tracePath := flag.Arg(0)
	meminPath := flag.Arg(1)

	config, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	insts, err := trace.Read(tracePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var points []sweep.Point
	if *sweepMode == "l1" {
		points, err = sweep.RunL1BlockSweep(insts, meminPath, *sweepFrom, *sweepTo, 0, config)
	} else {
		const fixedL1BlockSize = 32
		points, err = sweep.RunL2BlockSweep(insts, meminPath, *sweepFrom, *sweepTo, fixedL1BlockSize, config)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	for _, p := range points {
		runID := xid.New()
		if *verbose {
			fmt.Printf("run %s param=%d: ", runID, p.Param)
		}
		fmt.Printf("%d\t%.4f\t%d\t%.4f\n", p.Param, p.L1MissRate, p.Cycles, p.AMAT)
	}

	return 0
}

func l2Stats(h *mem.Hierarchy) mem.Statistics {
	if h.L2 == nil {
		return mem.Statistics{}
	}
	return h.L2.Stats()
}

type positionalArgs struct {
	levels int
	b1, b2 int

	trace, memin, memout string
	l1, l2way0, l2way1   string
	stats                string
}

func parsePositionalArgs(args []string) (positionalArgs, error) {
	var p positionalArgs

	levels, err := parseIntArg(args[0], "levels")
	if err != nil {
		return p, err
	}
	if levels != 1 && levels != 2 {
		return p, fmt.Errorf("%w: levels must be 1 or 2, got %d", mem.ErrInvalidArgs, levels)
	}

	b1, err := parseIntArg(args[1], "b1")
	if err != nil {
		return p, err
	}
	b2, err := parseIntArg(args[2], "b2")
	if err != nil {
		return p, err
	}

	p.levels = levels
	p.b1 = b1
	p.b2 = b2
	p.trace = args[3]
	p.memin = args[4]
	p.memout = args[5]
	p.l1 = args[6]
	p.l2way0 = args[7]
	p.l2way1 = args[8]
	p.stats = args[9]

	return p, nil
}

func parseIntArg(s, name string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", mem.ErrInvalidArgs, name, s)
	}
	return n, nil
}
