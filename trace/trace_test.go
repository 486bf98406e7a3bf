package trace_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/memhier/mem"
	"github.com/archsim/memhier/trace"
)

func TestTrace(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Trace Suite")
}

func writeTempFile(contents string) string {
	f, err := os.CreateTemp("", "trace-*.txt")
	Expect(err).NotTo(HaveOccurred())
	_, err = f.WriteString(contents)
	Expect(err).NotTo(HaveOccurred())
	Expect(f.Close()).To(Succeed())
	return f.Name()
}

var _ = Describe("Read", func() {
	It("parses a load with no data field", func() {
		path := writeTempFile("0 L 000000\n")
		defer os.Remove(path)

		insts, err := trace.Read(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(HaveLen(1))
		Expect(insts[0].Store).To(BeFalse())
		Expect(insts[0].Address).To(Equal(uint32(0)))
		Expect(insts[0].ExtraCycles).To(Equal(0))
	})

	It("converts a store's big-endian data field to little-endian bytes", func() {
		path := writeTempFile("0 S 000000 DEADBEEF\n")
		defer os.Remove(path)

		insts, err := trace.Read(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts[0].Store).To(BeTrue())
		Expect(insts[0].Data).To(Equal([4]byte{0xEF, 0xBE, 0xAD, 0xDE}))
	})

	It("carries extra cycles through", func() {
		path := writeTempFile("7 L 000010\n")
		defer os.Remove(path)

		insts, err := trace.Read(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts[0].ExtraCycles).To(Equal(7))
	})

	It("rejects a store with a missing data field", func() {
		path := writeTempFile("0 S 000000\n")
		defer os.Remove(path)

		_, err := trace.Read(path)
		Expect(err).To(MatchError(mem.ErrMalformedTrace))
	})

	It("rejects an address wider than 24 bits", func() {
		path := writeTempFile("0 L FFFFFFF\n")
		defer os.Remove(path)

		_, err := trace.Read(path)
		Expect(err).To(MatchError(mem.ErrMalformedTrace))
	})

	It("rejects a missing file", func() {
		_, err := trace.Read(filepath.Join(os.TempDir(), "does-not-exist.txt"))
		Expect(err).To(MatchError(mem.ErrIOFailure))
	})

	It("ignores blank lines", func() {
		path := writeTempFile("0 L 000000\n\n0 L 000004\n")
		defer os.Remove(path)

		insts, err := trace.Read(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(HaveLen(2))
	})

	It("accepts a version header at or below the format version", func() {
		path := writeTempFile("#version 1.0.0\n0 L 000000\n")
		defer os.Remove(path)

		insts, err := trace.Read(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(insts).To(HaveLen(1))
	})

	It("rejects a version header above the format version", func() {
		path := writeTempFile("#version 99.0.0\n0 L 000000\n")
		defer os.Remove(path)

		_, err := trace.Read(path)
		Expect(err).To(MatchError(mem.ErrMalformedTrace))
	})
})

var _ = Describe("WriteHexFile", func() {
	It("writes uppercase, zero-padded bytes with no trailing newline", func() {
		path := filepath.Join(os.TempDir(), "dump-test.txt")
		defer os.Remove(path)

		Expect(trace.WriteHexFile(path, []byte{0x0A, 0xFF, 0x00})).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("0A\nFF\n00"))
	})

	It("writes nothing for an empty slice", func() {
		path := filepath.Join(os.TempDir(), "dump-empty-test.txt")
		defer os.Remove(path)

		Expect(trace.WriteHexFile(path, []byte{})).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(""))
	})
})

var _ = Describe("Run", func() {
	It("accumulates extra cycles and memory cycles across the trace", func() {
		config := mem.DefaultHierarchyConfig()
		h, err := mem.NewHierarchy(1, 4, 0, config)
		Expect(err).NotTo(HaveOccurred())

		insts := []trace.Instruction{
			{ExtraCycles: 3, Store: false, Address: 0},
			{ExtraCycles: 2, Store: false, Address: 0},
		}

		result, err := trace.Run(insts, h.Head)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.MemInstructions).To(Equal(uint64(2)))
		Expect(result.TotalCycles).To(Equal(result.MemCycles + 5))
	})
})
