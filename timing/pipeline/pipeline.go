// Package pipeline provides an in-order issue timing model for the vector
// ALU. Instructions execute functionally through the emu package while a
// register scoreboard accounts for result latencies.
package pipeline

import (
	"fmt"

	"github.com/sarchlab/valu/emu"
	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/timing/latency"
)

// Statistics holds pipeline performance statistics.
type Statistics struct {
	// Cycles is the cycle at which the last result became available.
	Cycles uint64
	// Instructions is the number of instructions issued.
	Instructions uint64
	// Stalls is the number of cycles issue waited on a source or
	// destination register.
	Stalls uint64
	// DataHazards is the number of instructions that stalled.
	DataHazards uint64
	// MultiIssued is the number of instructions issued alongside an
	// earlier instruction in the same cycle.
	MultiIssued uint64
}

// CPI returns the cycles per instruction.
func (s Statistics) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// PipelineOption is a functional option for configuring the Pipeline.
type PipelineOption func(*Pipeline)

// WithLatencyTable sets a custom latency table for instruction timing.
func WithLatencyTable(table *latency.Table) PipelineOption {
	return func(p *Pipeline) {
		p.latencyTable = table
	}
}

// Pipeline issues instructions in program order, up to the configured
// issue width per cycle. An instruction issues once its sources and its
// destination are no longer pending.
type Pipeline struct {
	regFile      *emu.RegFile
	latencyTable *latency.Table
	hazards      *HazardUnit

	superscalarConfig SuperscalarConfig

	cycle  uint64
	issued int // instructions issued in the current cycle
	stats  Statistics
}

// NewPipeline creates a new pipeline running against regFile.
func NewPipeline(regFile *emu.RegFile, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		regFile:           regFile,
		latencyTable:      latency.NewTable(),
		hazards:           NewHazardUnit(),
		superscalarConfig: DefaultSuperscalarConfig(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.superscalarConfig.IssueWidth < 1 {
		p.superscalarConfig.IssueWidth = 1
	}

	return p
}

// RegFile returns the register file the pipeline executes against.
func (p *Pipeline) RegFile() *emu.RegFile {
	return p.regFile
}

// Stats returns pipeline statistics.
func (p *Pipeline) Stats() Statistics {
	return p.stats
}

// Issue executes one instruction and accounts for its timing. On error
// nothing is issued and the register file is unchanged.
func (p *Pipeline) Issue(inst *insts.Instruction) error {
	cycle, issued := p.cycle, p.issued
	if issued == p.superscalarConfig.IssueWidth {
		cycle++
		issued = 0
	}

	stall := false
	if ready := p.hazards.ReadyCycle(inst); ready > cycle {
		p.stats.Stalls += ready - cycle
		cycle = ready
		issued = 0
		stall = true
	}

	if _, err := emu.Execute(p.regFile, inst); err != nil {
		return err
	}

	if stall {
		p.stats.DataHazards++
	}
	if issued > 0 {
		p.stats.MultiIssued++
	}

	done := cycle + p.latencyTable.GetLatency(inst)
	p.hazards.Record(inst.Rd, done)

	p.cycle, p.issued = cycle, issued+1
	p.stats.Instructions++
	if done > p.stats.Cycles {
		p.stats.Cycles = done
	}

	return nil
}

// Run issues the program in order and stops at the first failing
// instruction.
func (p *Pipeline) Run(program []*insts.Instruction) error {
	for i, inst := range program {
		if err := p.Issue(inst); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, inst, err)
		}
	}
	return nil
}

// Reset clears the timing state. The register file is kept.
func (p *Pipeline) Reset() {
	p.hazards.Reset()
	p.cycle = 0
	p.issued = 0
	p.stats = Statistics{}
}

// LatencyTable returns the current latency table.
func (p *Pipeline) LatencyTable() *latency.Table {
	return p.latencyTable
}
