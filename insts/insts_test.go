package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/valu/insts"
)

var _ = Describe("Insts Package", func() {
	It("should have an Instruction type", func() {
		var i insts.Instruction
		Expect(i).To(BeZero())
	})

	It("should have a Decoder type", func() {
		decoder := insts.NewDecoder()
		Expect(decoder).ToNot(BeNil())
	})

	It("should name ops by their mnemonic", func() {
		Expect(insts.OpFMADD.String()).To(Equal("fmadd"))
		Expect(insts.OpQHPlus.String()).To(Equal("H+"))
		Expect(insts.OpQNormB.String()).To(Equal("Normalize_B"))
		Expect(insts.Op(999).String()).To(Equal("Op(999)"))
	})

	It("should classify op families", func() {
		Expect(insts.OpFDOT.IsLaneOp()).To(BeTrue())
		Expect(insts.OpFDOT.IsQALUOp()).To(BeFalse())
		Expect(insts.OpQSwapA.IsQALUOp()).To(BeTrue())
		Expect(insts.OpUnknown.IsLaneOp()).To(BeFalse())
		Expect(insts.OpUnknown.IsQALUOp()).To(BeFalse())
	})

	It("should expect three sources only for fmadd", func() {
		Expect(insts.OpFMADD.NumSources()).To(Equal(3))
		Expect(insts.OpFADD.NumSources()).To(Equal(2))
		Expect(insts.OpQMeasure.NumSources()).To(Equal(2))
	})

	It("should name formats", func() {
		Expect(insts.FormatMSFP16.String()).To(Equal("msfp16"))
		Expect(insts.Format(42).String()).To(Equal("Format(42)"))
	})
})
