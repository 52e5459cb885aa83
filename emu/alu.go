// Package emu provides functional emulation of the packed-lane vector ALU.
package emu

import (
	"fmt"
	"math"

	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/numfmt"
)

// MaxRule picks the fmax result for one lane.
type MaxRule func(a, b float64) float64

// CompareMax returns a if a > b, else b. A NaN on either side makes the
// comparison false, so b is returned.
func CompareMax(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// NaNAwareMax ignores a single NaN operand and returns NaN only when both
// operands are NaN. Ties keep a.
func NaNAwareMax(a, b float64) float64 {
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return math.NaN()
	case math.IsNaN(a):
		return b
	case math.IsNaN(b):
		return a
	case b > a:
		return b
	default:
		return a
	}
}

// LaneFormat describes how one register encoding is read, written and
// compared. The vector ALU is generic over it.
type LaneFormat struct {
	Format insts.Format
	Unpack func(word uint64) numfmt.Lanes
	Pack   func(lanes numfmt.Lanes) uint64
	Max    MaxRule
	Ops    []insts.Op
}

// Supports reports whether op is part of the format's operation set.
func (f LaneFormat) Supports(op insts.Op) bool {
	for _, o := range f.Ops {
		if o == op {
			return true
		}
	}
	return false
}

var laneOps = []insts.Op{
	insts.OpFADD, insts.OpFSUB, insts.OpFMUL, insts.OpFMAX, insts.OpFMADD,
}

// BF16Format packs four bfloat16 lanes. Results are narrowed through
// float32 before rounding to bf16, and fmax uses a plain comparison.
var BF16Format = LaneFormat{
	Format: insts.FormatBF16,
	Unpack: func(word uint64) numfmt.Lanes {
		var out numfmt.Lanes
		for i, h := range numfmt.UnpackLanes16(word) {
			out[i] = numfmt.BF16(h).Float64()
		}
		return out
	},
	Pack: func(lanes numfmt.Lanes) uint64 {
		var bits [numfmt.LaneCount]uint16
		for i, v := range lanes {
			bits[i] = numfmt.BF16FromFloat64(v).Bits()
		}
		return numfmt.PackLanes16(bits)
	},
	Max: CompareMax,
	Ops: laneOps,
}

// FP16Format packs four IEEE binary16 lanes with a NaN-aware fmax. It is
// the only format with the cross-lane dot product.
var FP16Format = LaneFormat{
	Format: insts.FormatFP16,
	Unpack: func(word uint64) numfmt.Lanes {
		var out numfmt.Lanes
		for i, h := range numfmt.UnpackLanes16(word) {
			out[i] = numfmt.FP16(h).Float64()
		}
		return out
	},
	Pack: func(lanes numfmt.Lanes) uint64 {
		var bits [numfmt.LaneCount]uint16
		for i, v := range lanes {
			bits[i] = numfmt.FP16FromFloat64(v).Bits()
		}
		return numfmt.PackLanes16(bits)
	},
	Max: NaNAwareMax,
	Ops: append(append([]insts.Op{}, laneOps...), insts.OpFDOT),
}

// MSFP16Format packs four lanes against one shared exponent. Results are
// re-blocked after every op, so per-lane results lose precision next to
// the largest lane.
var MSFP16Format = LaneFormat{
	Format: insts.FormatMSFP16,
	Unpack: numfmt.DecodeMSFP16,
	Pack:   numfmt.EncodeMSFP16,
	Max:    NaNAwareMax,
	Ops:    laneOps,
}

// VectorALU evaluates lane-wise float ops for one LaneFormat.
type VectorALU struct {
	format LaneFormat
}

// NewVectorALU creates a vector ALU for the given format.
func NewVectorALU(format LaneFormat) *VectorALU {
	return &VectorALU{format: format}
}

// Format returns the lane format the ALU evaluates.
func (v *VectorALU) Format() LaneFormat {
	return v.format
}

// Supports reports whether op is part of the format's operation set.
func (v *VectorALU) Supports(op insts.Op) bool {
	return v.format.Supports(op)
}

// Execute evaluates op over the source words and returns the packed result.
// Lanes are computed independently in float64 and re-encoded by the format.
func (v *VectorALU) Execute(op insts.Op, srcs ...uint64) (uint64, error) {
	if !v.Supports(op) {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, op, v.format.Format)
	}
	if len(srcs) != op.NumSources() {
		return 0, fmt.Errorf("%w: %s takes %d sources, got %d",
			ErrOperandCount, op, op.NumSources(), len(srcs))
	}

	a := v.format.Unpack(srcs[0])
	b := v.format.Unpack(srcs[1])

	var result numfmt.Lanes
	switch op {
	case insts.OpFADD:
		for i := range result {
			result[i] = a[i] + b[i]
		}
	case insts.OpFSUB:
		for i := range result {
			result[i] = a[i] - b[i]
		}
	case insts.OpFMUL:
		for i := range result {
			result[i] = a[i] * b[i]
		}
	case insts.OpFMAX:
		for i := range result {
			result[i] = v.format.Max(a[i], b[i])
		}
	case insts.OpFMADD:
		c := v.format.Unpack(srcs[2])
		for i := range result {
			result[i] = math.FMA(a[i], b[i], c[i])
		}
	case insts.OpFDOT:
		var acc float32
		for i := range a {
			acc = fma32(float32(a[i]), float32(b[i]), acc)
		}
		for i := range result {
			result[i] = float64(acc)
		}
	}

	return v.format.Pack(result), nil
}

// fma32 computes a*b+c with a single rounding to float32. The product of
// two float32 values is exact in float64; the sum is rounded to odd in
// float64 so the final narrowing cannot double-round.
func fma32(a, b, c float32) float32 {
	p := float64(a) * float64(b)
	s := p + float64(c)
	if math.IsInf(s, 0) || math.IsNaN(s) {
		return float32(s)
	}

	// Two-sum: err is the exact rounding error of s.
	bv := s - p
	err := (p - (s - bv)) + (float64(c) - bv)
	if err != 0 && math.Float64bits(s)&1 == 0 {
		if err > 0 {
			s = math.Nextafter(s, math.Inf(1))
		} else {
			s = math.Nextafter(s, math.Inf(-1))
		}
	}

	return float32(s)
}
