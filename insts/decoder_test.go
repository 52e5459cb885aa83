package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/valu/insts"
)

var _ = Describe("Decoder", func() {
	var decoder *insts.Decoder

	BeforeEach(func() {
		decoder = insts.NewDecoder()
	})

	Describe("Lane-wise float instructions", func() {
		It("should decode FADD.BF16 f1, f6, f7", func() {
			inst, err := decoder.Decode("FADD.BF16 f1, f6, f7")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.Format).To(Equal(insts.FormatBF16))
			Expect(inst.Rd).To(Equal("f1"))
			Expect(inst.Rs).To(Equal([]string{"f6", "f7"}))
		})

		It("should decode FMADD.MSFP16 with three sources", func() {
			inst, err := decoder.Decode("FMADD.MSFP16 f5, f14, f15, f16")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpFMADD))
			Expect(inst.Format).To(Equal(insts.FormatMSFP16))
			Expect(inst.Rd).To(Equal("f5"))
			Expect(inst.Rs).To(Equal([]string{"f14", "f15", "f16"}))
		})

		It("should accept lower case and tabs", func() {
			inst, err := decoder.Decode("fmax.fp16\tf4,f12 , f13")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpFMAX))
			Expect(inst.Format).To(Equal(insts.FormatFP16))
			Expect(inst.Rs).To(Equal([]string{"f12", "f13"}))
		})

		It("should leave the format unknown without a suffix", func() {
			inst, err := decoder.Decode("FSUB f2, f8, f9")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpFSUB))
			Expect(inst.Format).To(Equal(insts.FormatUnknown))
		})
	})

	Describe("QALU instructions", func() {
		It("should decode H+ with an implied QALU format", func() {
			inst, err := decoder.Decode("H+ q2, q0, q1")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpQHPlus))
			Expect(inst.Format).To(Equal(insts.FormatQALU))
			Expect(inst.Rd).To(Equal("q2"))
		})

		It("should decode the Q-prefixed aliases", func() {
			for text, op := range map[string]insts.Op{
				"QALLOCA q1, q0, q9": insts.OpQAllocA,
				"qhb q1, q0, q9":     insts.OpQHMinus,
				"QXA q1, q0, q9":     insts.OpQSwapA,
				"QMEAS c0, q0, q9":   insts.OpQMeasure,
				"QNORMB q1, q0, q9":  insts.OpQNormB,
			} {
				inst, err := decoder.Decode(text)
				Expect(err).ToNot(HaveOccurred())
				Expect(inst.Op).To(Equal(op), text)
				Expect(inst.Format).To(Equal(insts.FormatQALU), text)
			}
		})

		It("should keep an explicit non-QALU suffix on a QALU mnemonic", func() {
			inst, err := decoder.Decode("MEASURE.BF16 f1, f2, f3")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpQMeasure))
			Expect(inst.Format).To(Equal(insts.FormatBF16))
		})
	})

	Describe("Unknown and malformed text", func() {
		It("should decode an unknown mnemonic as OpUnknown", func() {
			inst, err := decoder.Decode("FDIV.BF16 f1, f2, f3")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Op).To(Equal(insts.OpUnknown))
			Expect(inst.Format).To(Equal(insts.FormatBF16))
		})

		It("should strip comments", func() {
			inst, err := decoder.Decode("  FMUL.FP16 f3, f10, f11 ; lanes 0-3")

			Expect(err).ToNot(HaveOccurred())
			Expect(inst.Rs).To(Equal([]string{"f10", "f11"}))
		})

		It("should reject a comment-only line", func() {
			_, err := decoder.Decode("# nothing here")
			Expect(err).To(HaveOccurred())
		})

		It("should reject missing operands", func() {
			_, err := decoder.Decode("FADD.BF16")
			Expect(err).To(MatchError(ContainSubstring("missing operands")))
		})

		It("should reject a destination without sources", func() {
			_, err := decoder.Decode("FADD.BF16 f1")
			Expect(err).To(HaveOccurred())
		})

		It("should reject empty operand slots", func() {
			_, err := decoder.Decode("FADD.BF16 f1, , f7")
			Expect(err).To(MatchError(ContainSubstring("malformed operand list")))
		})
	})

	Describe("Instruction.String", func() {
		It("should print lane ops with their format suffix", func() {
			inst, err := decoder.Decode("fmadd.bf16 f5, f14, f15, f16")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.String()).To(Equal("FMADD.BF16 f5, f14, f15, f16"))
		})

		It("should print QALU ops by name", func() {
			inst, err := decoder.Decode("QNORMA q3, q0, q1")
			Expect(err).ToNot(HaveOccurred())
			Expect(inst.String()).To(Equal("Normalize_A q3, q0, q1"))
		})
	})
})
