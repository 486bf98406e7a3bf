package trace

import (
	"bufio"
	"fmt"
	"os"

	"github.com/archsim/memhier/mem"
)

// WriteHexFile writes data as one uppercase, zero-padded hex byte per
// line, with no trailing newline after the last byte.
func WriteHexFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating output file %q: %v", mem.ErrIOFailure, path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, b := range data {
		if i > 0 {
			if _, err := w.WriteString("\n"); err != nil {
				return fmt.Errorf("%w: writing output file %q: %v", mem.ErrIOFailure, path, err)
			}
		}
		if _, err := fmt.Fprintf(w, "%02X", b); err != nil {
			return fmt.Errorf("%w: writing output file %q: %v", mem.ErrIOFailure, path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: flushing output file %q: %v", mem.ErrIOFailure, path, err)
	}

	return nil
}

// DumpFiles holds the output file paths the hierarchy's final state is
// written to, one per level (l2way0/l2way1 unused when levels == 1).
type DumpFiles struct {
	MemOut string
	L1     string
	L2Way0 string
	L2Way1 string
}

// DumpHierarchy writes the final contents of every level in h to the
// paths in files.
func DumpHierarchy(h *mem.Hierarchy, files DumpFiles) error {
	if err := WriteHexFile(files.L1, h.L1.Bytes()); err != nil {
		return err
	}
	if h.L2 != nil {
		if err := WriteHexFile(files.L2Way0, h.L2.Way0Bytes()); err != nil {
			return err
		}
		if err := WriteHexFile(files.L2Way1, h.L2.Way1Bytes()); err != nil {
			return err
		}
	}
	return WriteHexFile(files.MemOut, h.MainMemory.Bytes())
}
