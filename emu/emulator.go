// Package emu provides functional emulation of the packed-lane vector ALU.
package emu

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/valu/insts"
	"github.com/sarchlab/valu/timing/latency"
)

// HookPosInstRetired marks the point after an instruction has written its
// destination register. The hook item is the *insts.Instruction and the
// detail is a Retirement.
var HookPosInstRetired = &sim.HookPos{Name: "InstRetired"}

// HookPosInstFailed marks an instruction that returned an error. The hook
// item is the *insts.Instruction and the detail is the error.
var HookPosInstFailed = &sim.HookPos{Name: "InstFailed"}

// Retirement describes the register write made by one instruction.
type Retirement struct {
	Dst    string
	Value  uint64
	Cycles uint64
}

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Value is the word written to the destination register.
	Value uint64

	// Err is set if the instruction could not be executed. The register
	// file is unchanged in that case.
	Err error
}

// Statistics holds execution counters.
type Statistics struct {
	Instructions uint64
	Failures     uint64
	Cycles       uint64
}

// Emulator executes vector ALU instructions against a register file.
type Emulator struct {
	*sim.HookableBase

	regFile      *RegFile
	latencyTable *latency.Table

	stats           Statistics
	maxInstructions uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithRegFile runs the emulator against an existing register file.
func WithRegFile(rf *RegFile) EmulatorOption {
	return func(e *Emulator) {
		e.regFile = rf
	}
}

// WithLatencyTable sets the latency table used for cycle statistics.
func WithLatencyTable(table *latency.Table) EmulatorOption {
	return func(e *Emulator) {
		e.latencyTable = table
	}
}

// WithMaxInstructions sets the maximum number of instructions Run executes.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// NewEmulator creates a new vector ALU emulator.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		HookableBase: sim.NewHookableBase(),
		regFile:      NewRegFile(),
		latencyTable: latency.NewTable(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Stats returns the execution counters.
func (e *Emulator) Stats() Statistics {
	return e.stats
}

// Reset clears the register file and the counters. Hooks stay attached.
func (e *Emulator) Reset() {
	e.regFile = NewRegFile()
	e.stats = Statistics{}
}

// Step executes a single instruction.
func (e *Emulator) Step(inst *insts.Instruction) StepResult {
	value, err := Execute(e.regFile, inst)
	if err != nil {
		e.stats.Failures++
		if e.NumHooks() > 0 {
			e.InvokeHook(sim.HookCtx{
				Domain: e,
				Pos:    HookPosInstFailed,
				Item:   inst,
				Detail: err,
			})
		}
		return StepResult{Err: err}
	}

	cycles := e.latencyTable.GetLatency(inst)
	e.stats.Instructions++
	e.stats.Cycles += cycles

	if e.NumHooks() > 0 {
		e.InvokeHook(sim.HookCtx{
			Domain: e,
			Pos:    HookPosInstRetired,
			Item:   inst,
			Detail: Retirement{Dst: inst.Rd, Value: value, Cycles: cycles},
		})
	}

	return StepResult{Value: value}
}

// Run executes the program in order and stops at the first failing
// instruction.
func (e *Emulator) Run(program []*insts.Instruction) error {
	for i, inst := range program {
		if e.maxInstructions > 0 && e.stats.Instructions >= e.maxInstructions {
			return fmt.Errorf("max instructions reached")
		}

		result := e.Step(inst)
		if result.Err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, inst, result.Err)
		}
	}
	return nil
}
