package latency

import (
	"encoding/json"
	"fmt"
	"os"
)

// TimingConfig holds the pin timing of a slice, in picoseconds.
// Every output group defaults to a 500 ps delay.
type TimingConfig struct {
	// PropagationDelayPs is the delay from the clock edge to the Y outputs.
	// Default: 500 ps.
	PropagationDelayPs uint64 `json:"propagation_delay_ps"`

	// FlagDelayPs is the delay from the clock edge to Z, F3, C4 and OVR.
	// Default: 500 ps.
	FlagDelayPs uint64 `json:"flag_delay_ps"`

	// BoundaryDelayPs is the delay from the clock edge to the shift
	// boundary outputs of the 8-bit slice. Default: 500 ps.
	BoundaryDelayPs uint64 `json:"boundary_delay_ps"`

	// ClockPeriodPs is the period of the clock driving a datapath.
	// Default: 40000 ps (25 MHz), enough for 16 slices.
	ClockPeriodPs uint64 `json:"clock_period_ps"`

	// RippleSkewPs is the clock skew between neighboring slices of a
	// datapath. It must exceed FlagDelayPs so that a slice samples the
	// carry of the slice below it. Default: 1000 ps.
	RippleSkewPs uint64 `json:"ripple_skew_ps"`
}

// DefaultTimingConfig returns the default TimingConfig.
func DefaultTimingConfig() *TimingConfig {
	return &TimingConfig{
		PropagationDelayPs: 500,
		FlagDelayPs:        500,
		BoundaryDelayPs:    500,
		ClockPeriodPs:      40000,
		RippleSkewPs:       1000,
	}
}

// LoadConfig loads a TimingConfig from a JSON file. Fields missing from the
// file keep their default values.
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

// Validate checks that all delays are positive and consistent.
func (c *TimingConfig) Validate() error {
	if c.PropagationDelayPs == 0 {
		return fmt.Errorf("propagation_delay_ps must be > 0")
	}
	if c.FlagDelayPs == 0 {
		return fmt.Errorf("flag_delay_ps must be > 0")
	}
	if c.BoundaryDelayPs == 0 {
		return fmt.Errorf("boundary_delay_ps must be > 0")
	}
	if c.RippleSkewPs <= c.FlagDelayPs {
		return fmt.Errorf("ripple_skew_ps must be > flag_delay_ps")
	}
	if c.ClockPeriodPs <= 2*c.maxDelayPs() {
		return fmt.Errorf("clock_period_ps must be > twice the longest output delay")
	}
	return nil
}

// Clone returns a deep copy of the TimingConfig.
func (c *TimingConfig) Clone() *TimingConfig {
	return &TimingConfig{
		PropagationDelayPs: c.PropagationDelayPs,
		FlagDelayPs:        c.FlagDelayPs,
		BoundaryDelayPs:    c.BoundaryDelayPs,
		ClockPeriodPs:      c.ClockPeriodPs,
		RippleSkewPs:       c.RippleSkewPs,
	}
}

func (c *TimingConfig) maxDelayPs() uint64 {
	return max(c.PropagationDelayPs, c.FlagDelayPs, c.BoundaryDelayPs)
}
