package numfmt

import (
	"math"

	"github.com/x448/float16"
)

// FP16 is an IEEE 754 binary16 value.
//
//	S | EEEEE | MMMMMMMMMM
type FP16 uint16

// FP16 special patterns.
const (
	FP16Zero     FP16 = 0x0000
	FP16NegZero  FP16 = 0x8000
	FP16One      FP16 = 0x3C00
	FP16MaxValue FP16 = 0x7BFF // 65504
	FP16Inf      FP16 = 0x7C00
	FP16NegInf   FP16 = 0xFC00
	FP16NaN      FP16 = 0x7E00

	fp16SignMask = 0x8000

	// fp16OverflowThreshold is the smallest magnitude that rounds past
	// 65504 under round-to-nearest-even.
	fp16OverflowThreshold = 65520.0
)

// FP16FromFloat64 converts x to binary16 with round-to-nearest-even.
// Magnitudes that overflow the finite range become signed Infinity and NaN
// becomes the quiet NaN with x's sign.
func FP16FromFloat64(x float64) FP16 {
	var sign uint16
	if math.Signbit(x) {
		sign = fp16SignMask
	}

	switch {
	case math.IsNaN(x):
		return FP16(sign | uint16(FP16NaN))
	case math.Abs(x) >= fp16OverflowThreshold:
		return FP16(sign | uint16(FP16Inf))
	}

	return FP16(float16.Fromfloat32(narrowToOdd(x)).Bits())
}

// narrowToOdd narrows x to float32 rounding to odd: inexact results are
// truncated toward zero and get their lowest mantissa bit set. float32
// carries more than two bits beyond binary16's significand, so the
// following round-to-nearest-even step gives the correctly rounded result.
func narrowToOdd(x float64) float32 {
	f := float32(x)
	if float64(f) == x || math.IsInf(float64(f), 0) {
		return f
	}

	bits := math.Float32bits(f)
	if math.Abs(float64(f)) > math.Abs(x) {
		bits--
	}

	return math.Float32frombits(bits | 1)
}

// Float64 widens h to float64. The conversion is exact.
func (h FP16) Float64() float64 {
	return float64(float16.Frombits(uint16(h)).Float32())
}

// IsNaN reports whether h is a NaN pattern.
func (h FP16) IsNaN() bool {
	return float16.Frombits(uint16(h)).IsNaN()
}

// IsInf reports whether h is positive or negative infinity.
func (h FP16) IsInf() bool {
	return float16.Frombits(uint16(h)).IsInf(0)
}

// IsFinite reports whether h is neither Inf nor NaN.
func (h FP16) IsFinite() bool {
	return float16.Frombits(uint16(h)).IsFinite()
}

// Bits returns the raw pattern.
func (h FP16) Bits() uint16 {
	return uint16(h)
}
