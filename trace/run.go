package trace

import "github.com/archsim/memhier/mem"

// Result carries the cycle and instruction counts a trace replay
// produces, which the stats report is built from.
type Result struct {
	// TotalCycles is extra_cycles plus every memory access's cycles,
	// across the whole trace.
	TotalCycles uint64
	// MemCycles is the cycles spent on memory accesses alone.
	MemCycles uint64
	// MemInstructions is the number of load/store instructions executed.
	MemInstructions uint64
}

// Run drives insts through head in order, exactly as the CPU would:
// each instruction's extra_cycles are added to the running total before
// its memory access executes, and every access fully completes
// (including any cascaded fills and flushes) before the next begins.
func Run(insts []Instruction, head mem.Level) (Result, error) {
	var result Result

	for _, inst := range insts {
		result.TotalCycles += uint64(inst.ExtraCycles)

		var cycles uint64
		var err error
		if inst.Store {
			cycles, err = head.Store(inst.Address, mem.CPUDataSize, inst.Data[:])
		} else {
			_, cycles, err = head.Load(inst.Address, mem.CPUDataSize)
		}
		if err != nil {
			return result, err
		}

		result.TotalCycles += cycles
		result.MemCycles += cycles
		result.MemInstructions++
	}

	return result, nil
}
