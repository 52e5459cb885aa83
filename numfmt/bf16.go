// Package numfmt provides the scalar codecs used by the vector ALU model.
//
// Each codec converts between a float64 value and the bit pattern stored in
// one lane (or, for QALU, one whole register). All conversions are total:
// out-of-range values saturate instead of failing.
package numfmt

import "math"

// BF16 is a brain floating-point value: the high half of an IEEE 754
// single-precision pattern.
//
//	S | EEEEEEEE | MMMMMMM
type BF16 uint16

// BF16 special patterns.
const (
	BF16Zero    BF16 = 0x0000
	BF16NegZero BF16 = 0x8000
	BF16One     BF16 = 0x3F80
	BF16Inf     BF16 = 0x7F80
	BF16NegInf  BF16 = 0xFF80
	BF16NaN     BF16 = 0x7FC0 // quiet NaN written for every NaN input

	bf16SignMask = 0x8000
)

// BF16FromFloat32 converts f with round-to-nearest-even on the discarded
// low 16 bits. NaN and Inf are handled before rounding and keep their sign.
func BF16FromFloat32(f float32) BF16 {
	bits := math.Float32bits(f)
	sign := uint16(bits>>16) & bf16SignMask

	if math.IsNaN(float64(f)) {
		return BF16(sign | uint16(BF16NaN))
	}
	if math.IsInf(float64(f), 0) {
		return BF16(sign | uint16(BF16Inf))
	}

	lsb := bits & 0xFFFF
	if lsb > 0x8000 || (lsb == 0x8000 && bits&0x10000 != 0) {
		bits += 0x10000
	}

	return BF16(bits >> 16)
}

// BF16FromFloat64 narrows x to float32 first (overflowing to Inf), then
// rounds to bf16.
func BF16FromFloat64(x float64) BF16 {
	return BF16FromFloat32(float32(x))
}

// Float32 widens b to float32. The conversion is exact.
func (b BF16) Float32() float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float64 widens b to float64. The conversion is exact.
func (b BF16) Float64() float64 {
	return float64(b.Float32())
}

// IsNaN reports whether b is a NaN pattern.
func (b BF16) IsNaN() bool {
	return b&0x7F80 == 0x7F80 && b&0x007F != 0
}

// IsInf reports whether b is positive or negative infinity.
func (b BF16) IsInf() bool {
	return b&0x7FFF == 0x7F80
}

// Bits returns the raw pattern.
func (b BF16) Bits() uint16 {
	return uint16(b)
}
