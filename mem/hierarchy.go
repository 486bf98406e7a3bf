package mem

import "fmt"

// Hierarchy wires together the levels the CLI (or a test) asked for:
// always a MainMemory and an L1Cache, optionally an L2Cache between
// them. The simulator drives every access through Head.
type Hierarchy struct {
	Head       Level
	L1         *L1Cache
	L2         *L2Cache // nil when levels == 1
	MainMemory *MainMemory
}

// NewHierarchy constructs the memory hierarchy for a simulation run.
// levels must be 1 or 2; when 1, b2 is ignored.
func NewHierarchy(levels, b1, b2 int, config HierarchyConfig) (*Hierarchy, error) {
	if levels != 1 && levels != 2 {
		return nil, fmt.Errorf("%w: levels must be 1 or 2, got %d", ErrInvalidArgs, levels)
	}

	mainMem := NewMainMemory(config.MainMemory)

	if levels == 1 {
		l1, err := NewL1Cache(mainMem, b1, config.L1)
		if err != nil {
			return nil, err
		}
		return &Hierarchy{Head: l1, L1: l1, MainMemory: mainMem}, nil
	}

	l2, err := NewL2Cache(mainMem, b2, config.L2)
	if err != nil {
		return nil, err
	}
	l1, err := NewL1Cache(l2, b1, config.L1)
	if err != nil {
		return nil, err
	}

	return &Hierarchy{Head: l1, L1: l1, L2: l2, MainMemory: mainMem}, nil
}

// Levels reports whether this hierarchy has an L2 (2) or not (1).
func (h *Hierarchy) Levels() int {
	if h.L2 != nil {
		return 2
	}
	return 1
}
