// Package sweep runs a simulation repeatedly across a range of block
// sizes, doubling the swept size each iteration, and collects the
// resulting miss rate, cycle count, and AMAT at each point. It exists to
// feed an external plotting tool; it does no plotting itself.
package sweep

import (
	"fmt"

	"github.com/archsim/memhier/mem"
	"github.com/archsim/memhier/report"
	"github.com/archsim/memhier/trace"
)

// Point is one sample of a sweep: the swept parameter's value, and the
// three figures a plot might want on its y-axis.
type Point struct {
	Param      int
	L1MissRate float64
	Cycles     uint64
	AMAT       float64
}

// RunL1BlockSweep re-runs insts against a fresh hierarchy for every
// power-of-two L1 block size from blockStart to blockEnd inclusive. When
// b2 is 0 the hierarchy has only an L1 of the given size; otherwise
// every run also gets an L2 of fixed block size b2.
func RunL1BlockSweep(insts []trace.Instruction, meminPath string, blockStart, blockEnd, b2 int, config mem.HierarchyConfig) ([]Point, error) {
	if !isPowerOfTwoAndOrdered(blockStart, blockEnd) {
		return nil, fmt.Errorf("%w: sweep range [%d,%d] must be powers of two with start <= end", mem.ErrInvalidArgs, blockStart, blockEnd)
	}

	levels := 2
	if b2 == 0 {
		levels = 1
	}

	var points []Point
	for b1 := blockStart; b1 <= blockEnd; b1 *= 2 {
		h, err := mem.NewHierarchy(levels, b1, b2, config)
		if err != nil {
			return nil, err
		}
		if err := h.MainMemory.LoadMemIn(meminPath); err != nil {
			return nil, err
		}

		result, err := trace.Run(insts, h.Head)
		if err != nil {
			return nil, err
		}

		summary := report.Summarize(result.TotalCycles, h.L1.Stats(), l2Stats(h), h.L2 != nil, result.MemCycles, result.MemInstructions)
		points = append(points, Point{
			Param:      b1,
			L1MissRate: summary.L1MissRate,
			Cycles:     result.TotalCycles,
			AMAT:       summary.AMAT,
		})
	}

	return points, nil
}

// RunL2BlockSweep re-runs insts against a fresh two-level hierarchy for
// every power-of-two L2 block size from blockStart to blockEnd
// inclusive, with L1's block size fixed at b1.
func RunL2BlockSweep(insts []trace.Instruction, meminPath string, blockStart, blockEnd, b1 int, config mem.HierarchyConfig) ([]Point, error) {
	if !isPowerOfTwoAndOrdered(blockStart, blockEnd) {
		return nil, fmt.Errorf("%w: sweep range [%d,%d] must be powers of two with start <= end", mem.ErrInvalidArgs, blockStart, blockEnd)
	}

	var points []Point
	for b2 := blockStart; b2 <= blockEnd; b2 *= 2 {
		h, err := mem.NewHierarchy(2, b1, b2, config)
		if err != nil {
			return nil, err
		}
		if err := h.MainMemory.LoadMemIn(meminPath); err != nil {
			return nil, err
		}

		result, err := trace.Run(insts, h.Head)
		if err != nil {
			return nil, err
		}

		summary := report.Summarize(result.TotalCycles, h.L1.Stats(), h.L2.Stats(), true, result.MemCycles, result.MemInstructions)
		points = append(points, Point{
			Param:      b2,
			L1MissRate: summary.L1MissRate,
			Cycles:     result.TotalCycles,
			AMAT:       summary.AMAT,
		})
	}

	return points, nil
}

func l2Stats(h *mem.Hierarchy) mem.Statistics {
	if h.L2 == nil {
		return mem.Statistics{}
	}
	return h.L2.Stats()
}

func isPowerOfTwoAndOrdered(start, end int) bool {
	if start <= 0 || end <= 0 || start > end {
		return false
	}
	return start&(start-1) == 0 && end&(end-1) == 0
}
