// Package trace parses the CPU instruction trace that drives the memory
// hierarchy simulation and writes the hierarchy's final state back out
// to disk.
package trace

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/archsim/memhier/mem"
)

// FormatVersion is the trace format version this reader implements. A
// trace file's optional "#version X.Y.Z" header is rejected if it names
// a version newer than this one.
const FormatVersion = "1.0.0"

// unversionedFormat is the version assumed for trace files with no
// header line, preserving compatibility with the format's original shape.
const unversionedFormat = "0.1.0"

// Instruction is one decoded line of the trace file: the number of
// non-memory cycles to add before the access, whether it is a load
// or a store, the target address, and (for stores) the 4 bytes of data
// already converted from the trace's big-endian encoding to the
// little-endian layout the hierarchy stores internally.
type Instruction struct {
	ExtraCycles int
	Store       bool
	Address     uint32
	Data        [mem.CPUDataSize]byte
}

// Read parses every line of a trace file. Each line is
// "<extra_cycles> <L|S> <hex_addr> [<hex_data>]"; stores carry a 4-byte
// big-endian hex data field, loads carry none.
func Read(path string) ([]Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening trace file %q: %v", mem.ErrIOFailure, path, err)
	}
	defer f.Close()

	var insts []Instruction
	scanner := bufio.NewScanner(f)
	lineNo := 0
	sawFirstLine := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !sawFirstLine {
			sawFirstLine = true
			if rest, ok := strings.CutPrefix(line, "#version "); ok {
				if err := checkFormatVersion(strings.TrimSpace(rest)); err != nil {
					return nil, fmt.Errorf("%w: trace file %q: %v", mem.ErrMalformedTrace, path, err)
				}
				continue
			}
		}

		inst, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: trace line %d (%q): %v", mem.ErrMalformedTrace, lineNo, line, err)
		}
		insts = append(insts, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading trace file %q: %v", mem.ErrIOFailure, path, err)
	}

	return insts, nil
}

func parseLine(line string) (Instruction, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Instruction{}, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}

	extraCycles, err := strconv.Atoi(fields[0])
	if err != nil {
		return Instruction{}, fmt.Errorf("invalid extra-cycles field %q: %w", fields[0], err)
	}

	var isStore bool
	switch fields[1] {
	case "L":
		isStore = false
	case "S":
		isStore = true
	default:
		return Instruction{}, fmt.Errorf("expected L or S, got %q", fields[1])
	}

	addr, err := strconv.ParseUint(fields[2], 16, 32)
	if err != nil {
		return Instruction{}, fmt.Errorf("invalid address field %q: %w", fields[2], err)
	}
	if addr&^uint64(mem.AddressMask) != 0 {
		return Instruction{}, fmt.Errorf("address 0x%X does not fit in %d bits", addr, mem.AddressBits)
	}

	inst := Instruction{
		ExtraCycles: extraCycles,
		Store:       isStore,
		Address:     uint32(addr),
	}

	if isStore {
		if len(fields) < 4 {
			return Instruction{}, fmt.Errorf("store instruction missing data field")
		}
		data, err := strconv.ParseUint(fields[3], 16, 32)
		if err != nil {
			return Instruction{}, fmt.Errorf("invalid data field %q: %w", fields[3], err)
		}
		inst.Data = bigEndianToLittleEndian(uint32(data))
	}

	return inst, nil
}

// checkFormatVersion parses a trace file's required minimum version and
// rejects it if this reader implements an older format than that.
func checkFormatVersion(required string) error {
	want, err := semver.NewVersion(required)
	if err != nil {
		return fmt.Errorf("invalid version header %q: %w", required, err)
	}
	have, err := semver.NewVersion(FormatVersion)
	if err != nil {
		return fmt.Errorf("invalid built-in format version %q: %w", FormatVersion, err)
	}
	if want.GreaterThan(have) {
		return fmt.Errorf("trace requires format version %s, this build supports up to %s", want, have)
	}
	return nil
}

// bigEndianToLittleEndian converts a 32-bit value written in the
// trace's big-endian hex encoding into the little-endian byte layout
// the hierarchy stores data in.
func bigEndianToLittleEndian(data uint32) [mem.CPUDataSize]byte {
	return [mem.CPUDataSize]byte{
		byte(data),
		byte(data >> 8),
		byte(data >> 16),
		byte(data >> 24),
	}
}
