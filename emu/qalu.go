package emu

import (
	"fmt"
	"math"

	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/numfmt"
)

const (
	// SqrtHalf is 1/sqrt(2), the Hadamard scale factor.
	SqrtHalf = 0.7071067811865476

	// NormEpsilon guards Measure and Normalize against near-zero norms.
	NormEpsilon = 1e-9
)

// Qubit is the pair of QALU registers holding the two amplitudes (alpha,
// beta) of one two-level system. Every QALU op reads both halves.
type Qubit struct {
	A uint64
	B uint64
}

// Tag resolves the tag an allocation is carried under: B's tag when B is a
// non-zero word, A's otherwise.
func (q Qubit) Tag() uint8 {
	if q.B != 0 {
		return numfmt.AmplitudeTag(q.B)
	}
	return numfmt.AmplitudeTag(q.A)
}

// Probabilities returns |A|^2 and |B|^2.
func (q Qubit) Probabilities() (p0, p1 float64) {
	return numfmt.UnpackAmplitude(q.A).MagnitudeSquared(),
		numfmt.UnpackAmplitude(q.B).MagnitudeSquared()
}

// QALU evaluates the fixed-point amplitude operations.
type QALU struct{}

// NewQALU creates a QALU.
func NewQALU() *QALU {
	return &QALU{}
}

// Supports reports whether op is a QALU op.
func (u *QALU) Supports(op insts.Op) bool {
	return op.IsQALUOp()
}

// Execute evaluates op with srcs[0] as A and srcs[1] as B.
func (u *QALU) Execute(op insts.Op, srcs ...uint64) (uint64, error) {
	if !u.Supports(op) {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, op, insts.FormatQALU)
	}
	if len(srcs) != op.NumSources() {
		return 0, fmt.Errorf("%w: %s takes %d sources, got %d",
			ErrOperandCount, op, op.NumSources(), len(srcs))
	}
	return u.ExecutePair(op, Qubit{A: srcs[0], B: srcs[1]})
}

// ExecutePair evaluates op on an explicit amplitude pair.
func (u *QALU) ExecutePair(op insts.Op, q Qubit) (uint64, error) {
	a := numfmt.UnpackAmplitude(q.A)
	b := numfmt.UnpackAmplitude(q.B)

	switch op {
	case insts.OpQAllocA, insts.OpQAllocB:
		return numfmt.PackAmplitude(numfmt.Amplitude{
			Tag: q.Tag(), Real: a.Real, Imag: a.Imag,
		}), nil

	case insts.OpQHPlus:
		return numfmt.PackAmplitude(numfmt.Amplitude{
			Tag:  a.Tag,
			Real: (a.Real + b.Real) * SqrtHalf,
			Imag: (a.Imag + b.Imag) * SqrtHalf,
		}), nil

	case insts.OpQHMinus:
		return numfmt.PackAmplitude(numfmt.Amplitude{
			Tag:  a.Tag,
			Real: (a.Real - b.Real) * SqrtHalf,
			Imag: (a.Imag - b.Imag) * SqrtHalf,
		}), nil

	case insts.OpQSwapA:
		return q.B, nil

	case insts.OpQSwapB:
		return q.A, nil

	case insts.OpQPhase:
		sin, cos := math.Sincos(b.Imag)
		return numfmt.PackAmplitude(numfmt.Amplitude{
			Tag:  a.Tag,
			Real: a.Real*cos - a.Imag*sin,
			Imag: a.Real*sin + a.Imag*cos,
		}), nil

	case insts.OpQMeasure:
		return Measure(q), nil

	case insts.OpQNormA:
		return normalize(q.A, a, q), nil

	case insts.OpQNormB:
		return normalize(q.B, b, q), nil
	}

	return 0, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, op, insts.FormatQALU)
}

// Measure collapses q deterministically: 0 when |A|^2 carries more than
// half of the total probability, 1 otherwise. A total below NormEpsilon
// measures 0.
func Measure(q Qubit) uint64 {
	p0, p1 := q.Probabilities()
	total := p0 + p1
	if total < NormEpsilon {
		return 0
	}
	if p0/total > 0.5 {
		return 0
	}
	return 1
}

func normalize(raw uint64, amp numfmt.Amplitude, q Qubit) uint64 {
	p0, p1 := q.Probabilities()
	norm := math.Sqrt(p0 + p1)
	if norm < NormEpsilon {
		return raw
	}
	return numfmt.PackAmplitude(numfmt.Amplitude{
		Tag:  amp.Tag,
		Real: amp.Real / norm,
		Imag: amp.Imag / norm,
	})
}
