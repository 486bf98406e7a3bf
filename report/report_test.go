package report_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/archsim/memhier/mem"
	"github.com/archsim/memhier/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Summarize", func() {
	It("reports 0 AMAT for an empty run", func() {
		s := report.Summarize(0, mem.Statistics{}, mem.Statistics{}, false, 0, 0)
		Expect(s.AMAT).To(Equal(0.0))
		Expect(s.L1MissRate).To(Equal(0.0))
		Expect(s.GlobalMissRate).To(Equal(0.0))
	})

	It("uses the L1 miss rate alone as the global rate when there is no L2", func() {
		l1 := mem.Statistics{ReadHits: 1, ReadMisses: 1}
		s := report.Summarize(201, l1, mem.Statistics{}, false, 101, 2)
		Expect(s.L1MissRate).To(BeNumerically("~", 0.5, 0.0001))
		Expect(s.GlobalMissRate).To(Equal(s.L1MissRate))
	})

	It("multiplies L1 and L2 local miss rates for the global rate", func() {
		l1 := mem.Statistics{ReadHits: 1, ReadMisses: 1}
		l2 := mem.Statistics{ReadHits: 0, ReadMisses: 1}
		s := report.Summarize(205, l1, l2, true, 105, 2)
		Expect(s.L1MissRate).To(BeNumerically("~", 0.5, 0.0001))
		Expect(s.GlobalMissRate).To(BeNumerically("~", 0.5, 0.0001))
	})
})

var _ = Describe("Write", func() {
	It("writes twelve lines with no trailing newline", func() {
		path := filepath.Join(os.TempDir(), "stats-test.txt")
		defer os.Remove(path)

		s := report.Summarize(101, mem.Statistics{ReadMisses: 1}, mem.Statistics{}, false, 101, 1)
		Expect(report.Write(path, s)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())

		expected := "101\n0\n0\n1\n0\n0\n0\n0\n0\n1.0000\n1.0000\n101.0000"
		Expect(string(data)).To(Equal(expected))
	})

	It("writes zeroed L2 lines when the run has no L2", func() {
		path := filepath.Join(os.TempDir(), "stats-no-l2-test.txt")
		defer os.Remove(path)

		s := report.Summarize(0, mem.Statistics{}, mem.Statistics{}, false, 0, 0)
		Expect(report.Write(path, s)).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("0\n0\n0\n0\n0\n0\n0\n0\n0\n0.0000\n0.0000\n0.0000"))
	})
})
