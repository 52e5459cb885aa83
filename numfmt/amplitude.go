package numfmt

import "math"

// QALU register layout: a 4-bit tag above two 30-bit two's-complement Q29
// fixed-point fields.
//
//	63  60 59        30 29         0
//	| tag |    real    |    imag    |
const (
	QALUFracBits  = 29
	QALUFieldBits = 30
	QALUScale     = 1 << QALUFracBits
	QALUMaxFixed  = 1<<QALUFracBits - 1
	QALUMinFixed  = -(1 << QALUFracBits)
	QALUMaxTag    = 15

	qaluFieldMask = 1<<QALUFieldBits - 1
	qaluSignBit   = 1 << (QALUFieldBits - 1)
	qaluTagMask   = 0xF
	qaluTagShift  = 2 * QALUFieldBits
	qaluRealShift = QALUFieldBits
)

// EncodeFixed converts x to a Q29 integer, saturating at the field bounds
// and rounding half away from zero. NaN encodes as 0.
func EncodeFixed(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}

	scaled := x * QALUScale
	switch {
	case scaled > QALUMaxFixed:
		scaled = QALUMaxFixed
	case scaled < QALUMinFixed:
		scaled = QALUMinFixed
	}

	return int64(math.Round(scaled))
}

// DecodeFixed sign-extends the low 30 bits of field and scales by 2^-29.
func DecodeFixed(field uint64) float64 {
	v := int64(field & qaluFieldMask)
	if v&qaluSignBit != 0 {
		v -= 1 << QALUFieldBits
	}
	return float64(v) / QALUScale
}

// Amplitude is one complex probability amplitude together with the tag it
// is carried under. The tag is propagated, never computed on.
type Amplitude struct {
	Tag  uint8
	Real float64
	Imag float64
}

// PackAmplitude encodes a into a QALU register word. Only the low 4 bits of
// the tag are kept.
func PackAmplitude(a Amplitude) uint64 {
	re := uint64(EncodeFixed(a.Real)) & qaluFieldMask
	im := uint64(EncodeFixed(a.Imag)) & qaluFieldMask
	tag := uint64(a.Tag) & qaluTagMask

	return tag<<qaluTagShift | re<<qaluRealShift | im
}

// UnpackAmplitude decodes a QALU register word.
func UnpackAmplitude(word uint64) Amplitude {
	return Amplitude{
		Tag:  AmplitudeTag(word),
		Real: DecodeFixed(word >> qaluRealShift),
		Imag: DecodeFixed(word),
	}
}

// AmplitudeTag returns the 4-bit tag of a QALU register word.
func AmplitudeTag(word uint64) uint8 {
	return uint8(word>>qaluTagShift) & qaluTagMask
}

// MagnitudeSquared returns |a|^2.
func (a Amplitude) MagnitudeSquared() float64 {
	return a.Real*a.Real + a.Imag*a.Imag
}
