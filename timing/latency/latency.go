// Package latency provides instruction timing estimates for the vector ALU.
//
// The latency values are configurable via TimingConfig. They only feed the
// emulator's cycle statistics; results never depend on them.
package latency

import (
	"github.com/sarchlab/valu/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given instruction.
func (t *Table) GetLatency(inst *insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	var cycles uint64
	switch inst.Op {
	case insts.OpFADD, insts.OpFSUB, insts.OpFMAX:
		cycles = t.config.LaneOpLatency
	case insts.OpFMUL:
		cycles = t.config.MultiplyLatency
	case insts.OpFMADD:
		cycles = t.config.FMALatency
	case insts.OpFDOT:
		cycles = t.config.DotLatency
	case insts.OpQMeasure:
		cycles = t.config.MeasureLatency
	case insts.OpQNormA, insts.OpQNormB:
		cycles = t.config.NormalizeLatency
	case insts.OpQAllocA, insts.OpQAllocB, insts.OpQHPlus, insts.OpQHMinus,
		insts.OpQSwapA, insts.OpQSwapB, insts.OpQPhase:
		cycles = t.config.QALULatency
	default:
		return 1
	}

	if inst.Format == insts.FormatMSFP16 {
		cycles += t.config.BlockPackPenalty
	}

	return cycles
}

// IsBlockOp returns true if the instruction re-blocks an msfp16 register.
func (t *Table) IsBlockOp(inst *insts.Instruction) bool {
	if inst == nil {
		return false
	}
	return inst.Format == insts.FormatMSFP16 && inst.Op.IsLaneOp()
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
