// Package emu provides functional emulation of the packed-lane vector ALU.
package emu

import (
	"fmt"
	"sort"
)

// RegFile maps register names to 64-bit words.
//
// The register file is owned by the caller and passed explicitly into every
// operation; an operation reads its sources and overwrites exactly one
// destination.
type RegFile struct {
	regs map[string]uint64
}

// NewRegFile creates an empty register file.
func NewRegFile() *RegFile {
	return &RegFile{regs: make(map[string]uint64)}
}

// ReadReg reads a register value. Reading a register that was never written
// returns ErrUnknownRegister.
func (r *RegFile) ReadReg(name string) (uint64, error) {
	v, ok := r.regs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
	}
	return v, nil
}

// WriteReg writes a value to a register, creating it if needed.
func (r *RegFile) WriteReg(name string, value uint64) {
	r.regs[name] = value
}

// Has reports whether the register has been written.
func (r *RegFile) Has(name string) bool {
	_, ok := r.regs[name]
	return ok
}

// Len returns the number of registers.
func (r *RegFile) Len() int {
	return len(r.regs)
}

// Names returns the register names in sorted order.
func (r *RegFile) Names() []string {
	names := make([]string, 0, len(r.regs))
	for name := range r.regs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the register file.
func (r *RegFile) Clone() *RegFile {
	c := NewRegFile()
	for name, v := range r.regs {
		c.regs[name] = v
	}
	return c
}
