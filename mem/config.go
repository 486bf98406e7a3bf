package mem

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// LevelTiming holds the bus/hit parameters for one cache level. Block
// size is not part of this struct: it is a per-run CLI argument, not a
// fixed timing parameter.
type LevelTiming struct {
	// HitTime is the fixed number of cycles to serve a hit, in cycles.
	HitTime uint64 `json:"hit_time" yaml:"hit_time"`
	// BusWidthBits is the width of the bus to the previous level, in bits.
	BusWidthBits int `json:"bus_width_bits" yaml:"bus_width_bits"`
	// BusAccessTime is the extra cost per bus-width-sized chunk beyond
	// the first, in cycles.
	BusAccessTime uint64 `json:"bus_access_time" yaml:"bus_access_time"`
}

// MainMemoryTiming holds main memory's timing parameters and its size.
type MainMemoryTiming struct {
	// SizeBytes is the size of the backing store in bytes.
	SizeBytes int `json:"size_bytes" yaml:"size_bytes"`
	// AccessTime is the fixed latency of every access, in cycles.
	AccessTime uint64 `json:"access_time" yaml:"access_time"`
	// BusWidthBits is the width of the bus to L1/L2, in bits.
	BusWidthBits int `json:"bus_width_bits" yaml:"bus_width_bits"`
	// BusAccessTime is the extra cost per bus-width-sized chunk beyond
	// the first, in cycles.
	BusAccessTime uint64 `json:"bus_access_time" yaml:"bus_access_time"`
}

// HierarchyConfig holds every timing/sizing parameter of the memory
// hierarchy that is normally fixed to a documented constant, but that a
// debug build or a test suite may legitimately want to override.
type HierarchyConfig struct {
	L1         LevelTiming      `json:"l1" yaml:"l1"`
	L2         LevelTiming      `json:"l2" yaml:"l2"`
	MainMemory MainMemoryTiming `json:"main_memory" yaml:"main_memory"`
}

// L1CacheSizeBytes is the fixed size of L1.
const L1CacheSizeBytes = 4 * 1024

// L2CacheSizeBytes is the fixed size of L2.
const L2CacheSizeBytes = 32 * 1024

// L2Ways is the fixed associativity of L2.
const L2Ways = 2

// DefaultMainMemorySizeBytes is main memory's documented default size:
// 16 MiB, not a smaller debug-only footprint.
const DefaultMainMemorySizeBytes = 16 * 1024 * 1024

// DefaultHierarchyConfig returns the documented timing parameters: L1
// hit time 1cc over a 32-bit bus, L2 hit time 4cc over a 256-bit bus,
// main memory access time 100cc over a 64-bit bus, all with a 1cc
// per-extra-chunk bus access time.
func DefaultHierarchyConfig() HierarchyConfig {
	return HierarchyConfig{
		L1: LevelTiming{
			HitTime:       1,
			BusWidthBits:  32,
			BusAccessTime: 1,
		},
		L2: LevelTiming{
			HitTime:       4,
			BusWidthBits:  256,
			BusAccessTime: 1,
		},
		MainMemory: MainMemoryTiming{
			SizeBytes:     DefaultMainMemorySizeBytes,
			AccessTime:    100,
			BusWidthBits:  64,
			BusAccessTime: 1,
		},
	}
}

// LoadHierarchyConfig reads a HierarchyConfig override from disk. JSON is
// used for ".json" files, YAML for ".yaml"/".yml"; any other extension is
// rejected. Unset fields keep their DefaultHierarchyConfig() values.
func LoadHierarchyConfig(path string) (HierarchyConfig, error) {
	config := DefaultHierarchyConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return HierarchyConfig{}, fmt.Errorf("%w: reading hierarchy config %q: %v", ErrIOFailure, path, err)
	}

	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		if err := yaml.Unmarshal(data, &config); err != nil {
			return HierarchyConfig{}, fmt.Errorf("%w: parsing hierarchy config %q: %v", ErrInvalidArgs, path, err)
		}
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, &config); err != nil {
			return HierarchyConfig{}, fmt.Errorf("%w: parsing hierarchy config %q: %v", ErrInvalidArgs, path, err)
		}
	default:
		return HierarchyConfig{}, fmt.Errorf("%w: unsupported hierarchy config extension for %q", ErrInvalidArgs, path)
	}

	if err := config.Validate(); err != nil {
		return HierarchyConfig{}, err
	}

	return config, nil
}

// Validate checks that every timing parameter is usable.
func (c HierarchyConfig) Validate() error {
	if c.L1.BusWidthBits <= 0 || c.L2.BusWidthBits <= 0 || c.MainMemory.BusWidthBits <= 0 {
		return fmt.Errorf("%w: bus width must be > 0", ErrInvalidArgs)
	}
	if !isPowerOfTwo(c.MainMemory.SizeBytes) {
		return fmt.Errorf("%w: main memory size must be a power of two, got %d", ErrInvalidArgs, c.MainMemory.SizeBytes)
	}
	return nil
}
