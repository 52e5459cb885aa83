package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds latency values for the vector ALU instruction classes.
// The values are cycle estimates for a single-issue unit; the functional
// model does not depend on them.
type TimingConfig struct {
	// LaneOpLatency is the latency for lane-wise add, subtract and max.
	// Default: 1 cycle.
	LaneOpLatency uint64 `json:"lane_op_latency"`

	// MultiplyLatency is the latency for lane-wise multiply.
	// Default: 3 cycles.
	MultiplyLatency uint64 `json:"multiply_latency"`

	// FMALatency is the latency for fused multiply-add.
	// Default: 4 cycles.
	FMALatency uint64 `json:"fma_latency"`

	// DotLatency is the latency for the 4-lane dot product.
	// Default: 6 cycles.
	DotLatency uint64 `json:"dot_latency"`

	// BlockPackPenalty is added to every msfp16 op for the shared-exponent
	// scan that must see all four lanes before quantising.
	// Default: 1 cycle.
	BlockPackPenalty uint64 `json:"block_pack_penalty"`

	// QALULatency is the latency for QALU allocate, swap, Hadamard and
	// phase ops.
	// Default: 2 cycles.
	QALULatency uint64 `json:"qalu_latency"`

	// MeasureLatency is the latency for QALU measurement.
	// Default: 4 cycles.
	MeasureLatency uint64 `json:"measure_latency"`

	// NormalizeLatency is the latency for QALU normalisation (square root
	// and divide).
	// Default: 8 cycles.
	NormalizeLatency uint64 `json:"normalize_latency"`
}

// DefaultTimingConfig returns a TimingConfig with the default estimates.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		LaneOpLatency:    1,
		MultiplyLatency:  3,
		FMALatency:       4,
		DotLatency:       6,
		BlockPackPenalty: 1,
		QALULatency:      2,
		MeasureLatency:   4,
		NormalizeLatency: 8,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their defaults.
func LoadConfig(path string) (*TimingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing config file: %w", err)
	}

	config := DefaultTimingConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse timing config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a TimingConfig to a JSON file.
func (c *TimingConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize timing config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write timing config file: %w", err)
	}

	return nil
}

// Validate checks that all latency values are valid (> 0). The block pack
// penalty may be zero.
func (c *TimingConfig) Validate() error {
	if c.LaneOpLatency == 0 {
		return fmt.Errorf("lane_op_latency must be > 0")
	}
	if c.MultiplyLatency == 0 {
		return fmt.Errorf("multiply_latency must be > 0")
	}
	if c.FMALatency == 0 {
		return fmt.Errorf("fma_latency must be > 0")
	}
	if c.DotLatency == 0 {
		return fmt.Errorf("dot_latency must be > 0")
	}
	if c.QALULatency == 0 {
		return fmt.Errorf("qalu_latency must be > 0")
	}
	if c.MeasureLatency == 0 {
		return fmt.Errorf("measure_latency must be > 0")
	}
	if c.NormalizeLatency == 0 {
		return fmt.Errorf("normalize_latency must be > 0")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	clone := *c
	return &clone
}
