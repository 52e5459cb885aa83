package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/valu/emu"
	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/timing/latency"
	"github.com/sarchlab/valu/timing/pipeline"
)

var _ = Describe("Pipeline", func() {
	var (
		regFile *emu.RegFile
		decoder *insts.Decoder
		cfg     *latency.TimingConfig
	)

	program := func(lines ...string) []*insts.Instruction {
		out := make([]*insts.Instruction, 0, len(lines))
		for _, line := range lines {
			inst, err := decoder.Decode(line)
			Expect(err).NotTo(HaveOccurred())
			out = append(out, inst)
		}
		return out
	}

	BeforeEach(func() {
		decoder = insts.NewDecoder()
		cfg = latency.DefaultTimingConfig()
		regFile = emu.NewRegFile()
		regFile.WriteReg("f6", 0x3e00c00034005640)
		regFile.WriteReg("f7", 0x38004000b400d240)
	})

	Context("single issue", func() {
		var pipe *pipeline.Pipeline

		BeforeEach(func() {
			pipe = pipeline.NewPipeline(regFile)
		})

		It("should issue independent instructions back to back", func() {
			err := pipe.Run(program(
				"FADD.BF16 f1, f6, f7",
				"FADD.BF16 f2, f6, f7",
			))
			Expect(err).NotTo(HaveOccurred())

			stats := pipe.Stats()
			Expect(stats.Instructions).To(Equal(uint64(2)))
			Expect(stats.Cycles).To(Equal(1 + cfg.LaneOpLatency))
			Expect(stats.Stalls).To(BeZero())
		})

		It("should stall a dependent instruction until its source is ready", func() {
			err := pipe.Run(program(
				"FMUL.BF16 f1, f6, f7",
				"FADD.BF16 f2, f1, f7",
			))
			Expect(err).NotTo(HaveOccurred())

			stats := pipe.Stats()
			Expect(stats.DataHazards).To(Equal(uint64(1)))
			Expect(stats.Stalls).To(Equal(cfg.MultiplyLatency - 1))
			Expect(stats.Cycles).To(Equal(cfg.MultiplyLatency + cfg.LaneOpLatency))
		})

		It("should not let a write overtake a pending write", func() {
			err := pipe.Run(program(
				"FMADD.FP16 f1, f6, f7, f6",
				"FADD.FP16 f1, f6, f7",
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(pipe.Stats().DataHazards).To(Equal(uint64(1)))

			v, _ := regFile.ReadReg("f1")
			Expect(v).To(Equal(uint64(0x4000000000005240)))
		})

		It("should compute the same values as the emulator", func() {
			lines := []string{
				"FADD.MSFP16 f1, f6, f7",
				"FMAX.MSFP16 f2, f1, f6",
				"FMADD.MSFP16 f3, f1, f2, f7",
			}

			e := emu.NewEmulator(emu.WithRegFile(regFile.Clone()))
			Expect(e.Run(program(lines...))).To(Succeed())
			Expect(pipe.Run(program(lines...))).To(Succeed())

			for _, name := range []string{"f1", "f2", "f3"} {
				want, _ := e.RegFile().ReadReg(name)
				got, _ := pipe.RegFile().ReadReg(name)
				Expect(got).To(Equal(want), "register %s", name)
			}
		})

		It("should stop at the first failing instruction", func() {
			err := pipe.Run(program(
				"FADD.BF16 f1, f6, f7",
				"FADD.BF16 f2, f6, f9",
			))
			Expect(err).To(MatchError(emu.ErrUnknownRegister))
			Expect(pipe.Stats().Instructions).To(Equal(uint64(1)))
		})

		It("should clear timing state on reset", func() {
			Expect(pipe.Run(program("FMUL.BF16 f1, f6, f7"))).To(Succeed())
			pipe.Reset()

			Expect(pipe.Stats()).To(Equal(pipeline.Statistics{}))
			Expect(pipe.Run(program("FADD.BF16 f2, f1, f7"))).To(Succeed())
			Expect(pipe.Stats().Stalls).To(BeZero())
		})
	})

	Context("dual issue", func() {
		It("should issue two independent instructions in one cycle", func() {
			pipe := pipeline.NewPipeline(regFile, pipeline.WithDualIssue())

			err := pipe.Run(program(
				"FADD.BF16 f1, f6, f7",
				"FSUB.BF16 f2, f6, f7",
				"FMAX.BF16 f3, f6, f7",
			))
			Expect(err).NotTo(HaveOccurred())

			stats := pipe.Stats()
			Expect(stats.MultiIssued).To(Equal(uint64(1)))
			Expect(stats.Cycles).To(Equal(1 + cfg.LaneOpLatency))
			Expect(stats.CPI()).To(BeNumerically("<", 1.0))
		})
	})

	It("should use a custom latency table", func() {
		custom := latency.DefaultTimingConfig()
		custom.QALULatency = 10

		regFile.WriteReg("q0", 0x0400000000000000)
		pipe := pipeline.NewPipeline(regFile,
			pipeline.WithLatencyTable(latency.NewTableWithConfig(custom)))

		Expect(pipe.Run(program("H+ q1, q0, q0"))).To(Succeed())
		Expect(pipe.Stats().Cycles).To(Equal(uint64(10)))
	})
})
