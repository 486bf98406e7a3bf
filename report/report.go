// Package report writes the end-of-run statistics file a simulation
// produces, and computes the derived rates that feed it.
package report

import (
	"fmt"
	"os"

	"github.com/archsim/memhier/mem"
)

// Summary holds every figure the stats file reports, plus the derived
// rates a sweep run also wants (L1MissRate, GlobalMissRate, AMAT).
type Summary struct {
	TotalCycles uint64
	L1          mem.Statistics
	L2          mem.Statistics // zero value when the run has no L2
	HasL2       bool

	L1MissRate     float64
	GlobalMissRate float64
	AMAT           float64
}

// Summarize computes a Summary from a hierarchy's final counters and a
// trace run's cycle/instruction totals.
func Summarize(totalCycles uint64, l1, l2 mem.Statistics, hasL2 bool, memCycles, memInstructions uint64) Summary {
	s := Summary{
		TotalCycles: totalCycles,
		L1:          l1,
		L2:          l2,
		HasL2:       hasL2,
		L1MissRate:  l1.MissRate(),
	}

	if !hasL2 {
		s.GlobalMissRate = s.L1MissRate
	} else if l2.Requests() > 0 {
		s.GlobalMissRate = s.L1MissRate * l2.MissRate()
	}

	if memInstructions > 0 {
		s.AMAT = float64(memCycles) / float64(memInstructions)
	}

	return s
}

// Write renders s as the twelve-line stats file: total cycles, L1
// read/write hits and misses, L2 read/write hits and misses (four zero
// lines when the run has no L2), L1 local miss rate, global miss rate,
// and AMAT, each rate formatted to 4 decimal places. The file carries no
// trailing newline after the AMAT line.
func Write(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating stats file %q: %v", mem.ErrIOFailure, path, err)
	}
	defer f.Close()

	lines := []string{
		fmt.Sprintf("%d", s.TotalCycles),
		fmt.Sprintf("%d", s.L1.ReadHits),
		fmt.Sprintf("%d", s.L1.WriteHits),
		fmt.Sprintf("%d", s.L1.ReadMisses),
		fmt.Sprintf("%d", s.L1.WriteMisses),
	}
	if s.HasL2 {
		lines = append(lines,
			fmt.Sprintf("%d", s.L2.ReadHits),
			fmt.Sprintf("%d", s.L2.WriteHits),
			fmt.Sprintf("%d", s.L2.ReadMisses),
			fmt.Sprintf("%d", s.L2.WriteMisses),
		)
	} else {
		lines = append(lines, "0", "0", "0", "0")
	}
	lines = append(lines,
		fmt.Sprintf("%.4f", s.L1MissRate),
		fmt.Sprintf("%.4f", s.GlobalMissRate),
	)

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("%w: writing stats file %q: %v", mem.ErrIOFailure, path, err)
		}
	}
	if _, err := fmt.Fprintf(f, "%.4f", s.AMAT); err != nil {
		return fmt.Errorf("%w: writing stats file %q: %v", mem.ErrIOFailure, path, err)
	}

	return nil
}
