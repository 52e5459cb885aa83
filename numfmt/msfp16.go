package numfmt

import "math"

// MSFP16 block layout: four sign+magnitude lanes in the low 56 bits and one
// shared 8-bit exponent in the top byte.
//
//	63      56 55   42 41   28 27   14 13    0
//	| sharedE | lane3 | lane2 | lane1 | lane0 |
//
// Each lane is S | MMMMMMMMMMMMM (1 sign bit, 13 magnitude bits).
const (
	MSFP16LaneWidth     = 14
	MSFP16MagnitudeBits = 13
	MSFP16ExpShift      = LaneCount * MSFP16LaneWidth
	MSFP16ExpBias       = 127
	MSFP16MaxMagnitude  = 1<<MSFP16MagnitudeBits - 1

	msfp16LaneMask = 1<<MSFP16LaneWidth - 1
	msfp16MagMask  = MSFP16MaxMagnitude
	msfp16Scale    = 1 << MSFP16MagnitudeBits
	msfp16MinExp   = -126
	msfp16MaxExp   = 127
	msfp16NoExp    = math.MinInt32
)

// MSFP16SharedExponent returns the raw (biased) shared exponent of word.
func MSFP16SharedExponent(word uint64) uint8 {
	return uint8(word >> MSFP16ExpShift)
}

// DecodeMSFP16 unpacks the four lanes of a block. A zero shared exponent
// flushes the whole block to +0.
func DecodeMSFP16(word uint64) Lanes {
	var out Lanes

	sharedExp := MSFP16SharedExponent(word)
	if sharedExp == 0 {
		return out
	}
	exp := int(sharedExp) - MSFP16ExpBias

	for i := range out {
		lane := (word >> (uint(i) * MSFP16LaneWidth)) & msfp16LaneMask
		negative := lane>>MSFP16MagnitudeBits != 0
		mag := lane & msfp16MagMask

		v := 0.0
		if mag != 0 {
			v = math.Ldexp(float64(mag)/msfp16Scale, exp)
		}
		if negative {
			v = -v
		}
		out[i] = v
	}

	return out
}

type msfp16Part struct {
	negative bool
	exp      int
	frac     float64 // in [1, 2) for finite non-zero values
}

func decomposeMSFP16(x float64) msfp16Part {
	if x == 0 {
		return msfp16Part{exp: msfp16NoExp}
	}

	m, e := math.Frexp(math.Abs(x))
	return msfp16Part{
		negative: math.Signbit(x),
		exp:      e - 1,
		frac:     m * 2,
	}
}

// EncodeMSFP16 packs four values into one block. The shared exponent is the
// largest lane exponent (zeros excluded) clamped to [-126, 127]; every lane
// is then quantised against it, so small lanes lose precision next to large
// ones. Four zeros pack to raw 0.
func EncodeMSFP16(vals Lanes) uint64 {
	var parts [LaneCount]msfp16Part
	maxExp := msfp16NoExp
	for i, v := range vals {
		parts[i] = decomposeMSFP16(v)
		if parts[i].exp != msfp16NoExp && parts[i].exp > maxExp {
			maxExp = parts[i].exp
		}
	}

	if maxExp == msfp16NoExp {
		return 0
	}

	switch {
	case maxExp > msfp16MaxExp:
		maxExp = msfp16MaxExp
	case maxExp < msfp16MinExp:
		maxExp = msfp16MinExp
	}

	word := uint64(maxExp+MSFP16ExpBias) << MSFP16ExpShift
	for i, p := range parts {
		word |= uint64(quantiseMSFP16(p, maxExp)) << (uint(i) * MSFP16LaneWidth)
	}

	return word
}

func quantiseMSFP16(p msfp16Part, sharedExp int) uint16 {
	if p.exp == msfp16NoExp {
		return 0
	}

	f := math.Ldexp(p.frac, p.exp-sharedExp) * msfp16Scale
	switch {
	case math.IsNaN(f):
		f = 0
	case f < 0:
		f = 0
	case f > MSFP16MaxMagnitude:
		f = MSFP16MaxMagnitude
	}

	lane := uint16(math.Round(f)) & msfp16MagMask
	if p.negative {
		lane |= 1 << MSFP16MagnitudeBits
	}
	return lane
}
