package pipeline

import "github.com/sarchlab/valu/insts"

// HazardUnit is a register scoreboard: it records the cycle at which each
// pending result becomes available.
type HazardUnit struct {
	readyAt map[string]uint64
}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{readyAt: make(map[string]uint64)}
}

// ReadyCycle returns the first cycle inst can issue without reading a
// pending source (RAW) or overtaking a pending write to its destination
// (WAW).
func (h *HazardUnit) ReadyCycle(inst *insts.Instruction) uint64 {
	ready := h.readyAt[inst.Rd]
	for _, src := range inst.Rs {
		if c := h.readyAt[src]; c > ready {
			ready = c
		}
	}
	return ready
}

// Record marks reg as written at cycle done.
func (h *HazardUnit) Record(reg string, done uint64) {
	h.readyAt[reg] = done
}

// Reset clears all pending writes.
func (h *HazardUnit) Reset() {
	h.readyAt = make(map[string]uint64)
}
