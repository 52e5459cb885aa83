package numfmt_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/valu/numfmt"
)

var _ = Describe("Amplitude", func() {
	Describe("Fixed point", func() {
		It("should scale by 2^29", func() {
			Expect(numfmt.EncodeFixed(0.5)).To(Equal(int64(1 << 28)))
			Expect(numfmt.EncodeFixed(-1.0)).To(Equal(int64(numfmt.QALUMinFixed)))
		})

		It("should saturate above the largest representable value", func() {
			Expect(numfmt.EncodeFixed(1.5)).To(Equal(int64(numfmt.QALUMaxFixed)))
			Expect(numfmt.EncodeFixed(-7)).To(Equal(int64(numfmt.QALUMinFixed)))
		})

		It("should round half away from zero", func() {
			half := math.Ldexp(1, -30)
			Expect(numfmt.EncodeFixed(half)).To(Equal(int64(1)))
			Expect(numfmt.EncodeFixed(-half)).To(Equal(int64(-1)))
		})

		It("should encode NaN as zero", func() {
			Expect(numfmt.EncodeFixed(math.NaN())).To(Equal(int64(0)))
		})

		It("should sign-extend on decode", func() {
			Expect(numfmt.DecodeFixed(0x3FFFFFFF)).To(Equal(-math.Ldexp(1, -29)))
			Expect(numfmt.DecodeFixed(0x20000000)).To(Equal(-1.0))
		})

		It("should never decode a saturated value above 1.0", func() {
			word := numfmt.PackAmplitude(numfmt.Amplitude{Real: 1.5})
			a := numfmt.UnpackAmplitude(word)

			Expect(a.Real).To(Equal(float64(numfmt.QALUMaxFixed) / numfmt.QALUScale))
			Expect(a.Real).To(BeNumerically("<", 1.0))
		})
	})

	Describe("Register layout", func() {
		It("should place tag, real and imag fields", func() {
			word := numfmt.PackAmplitude(numfmt.Amplitude{Tag: 2, Real: 0.5, Imag: 0.5})
			Expect(word).To(Equal(uint64(0x2400000010000000)))
		})

		It("should keep only four tag bits", func() {
			word := numfmt.PackAmplitude(numfmt.Amplitude{Tag: 0x1F})
			Expect(numfmt.AmplitudeTag(word)).To(Equal(uint8(0xF)))
		})

		It("should encode negative components in two's complement", func() {
			word := numfmt.PackAmplitude(numfmt.Amplitude{Tag: 0, Real: 0.9, Imag: -0.1})
			Expect(word).To(Equal(uint64(0x073333337ccccccd)))
		})

		It("should unpack what it packs within one ulp", func() {
			in := numfmt.Amplitude{Tag: 9, Real: -0.3, Imag: 0.7}
			out := numfmt.UnpackAmplitude(numfmt.PackAmplitude(in))

			Expect(out.Tag).To(Equal(uint8(9)))
			Expect(out.Real).To(BeNumerically("~", -0.3, math.Ldexp(1, -29)))
			Expect(out.Imag).To(BeNumerically("~", 0.7, math.Ldexp(1, -29)))
		})

		It("should report the squared magnitude", func() {
			a := numfmt.Amplitude{Real: 0.6, Imag: 0.8}
			Expect(a.MagnitudeSquared()).To(BeNumerically("~", 1.0, 1e-12))
		})
	})
})
