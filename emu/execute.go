package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/valu/insts"
)

// Errors returned by Execute. Callers tell them apart with errors.Is.
var (
	// ErrUnsupportedOperation is returned for an opcode outside the
	// operation set of the instruction's format.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrUnknownRegister is returned when a source register was never
	// written.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrOperandCount is returned when an instruction has the wrong number
	// of source registers.
	ErrOperandCount = errors.New("wrong number of operands")
)

// ExecUnit evaluates the ops of one register format.
type ExecUnit interface {
	Supports(op insts.Op) bool
	Execute(op insts.Op, srcs ...uint64) (uint64, error)
}

// UnitFor returns the execution unit for a register format.
func UnitFor(format insts.Format) (ExecUnit, error) {
	switch format {
	case insts.FormatBF16:
		return NewVectorALU(BF16Format), nil
	case insts.FormatFP16:
		return NewVectorALU(FP16Format), nil
	case insts.FormatMSFP16:
		return NewVectorALU(MSFP16Format), nil
	case insts.FormatQALU:
		return NewQALU(), nil
	}
	return nil, fmt.Errorf("%w: no unit for format %s", ErrUnsupportedOperation, format)
}

// Evaluate computes op over raw source words without touching a register
// file.
func Evaluate(format insts.Format, op insts.Op, srcs ...uint64) (uint64, error) {
	unit, err := UnitFor(format)
	if err != nil {
		return 0, err
	}
	return unit.Execute(op, srcs...)
}

// Execute reads the instruction's sources from rf, evaluates it and writes
// the result to the destination register. The opcode and source count are
// checked before any register is read. On error rf is not modified.
func Execute(rf *RegFile, inst *insts.Instruction) (uint64, error) {
	unit, err := UnitFor(inst.Format)
	if err != nil {
		return 0, err
	}
	if !unit.Supports(inst.Op) {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnsupportedOperation, inst.Op, inst.Format)
	}
	if len(inst.Rs) != inst.Op.NumSources() {
		return 0, fmt.Errorf("%w: %s takes %d sources, got %d",
			ErrOperandCount, inst.Op, inst.Op.NumSources(), len(inst.Rs))
	}

	srcs := make([]uint64, len(inst.Rs))
	for i, name := range inst.Rs {
		srcs[i], err = rf.ReadReg(name)
		if err != nil {
			return 0, err
		}
	}

	result, err := unit.Execute(inst.Op, srcs...)
	if err != nil {
		return 0, err
	}

	rf.WriteReg(inst.Rd, result)
	return result, nil
}

// ExecuteOp is Execute for callers that hold the operands separately.
func ExecuteOp(
	rf *RegFile,
	format insts.Format,
	op insts.Op,
	dst string,
	srcs ...string,
) (uint64, error) {
	return Execute(rf, &insts.Instruction{Op: op, Format: format, Rd: dst, Rs: srcs})
}
