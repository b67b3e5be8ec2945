// Package latency provides the pin timing model of a slice.
//
// Delays are configured in picoseconds via TimingConfig and converted to
// akita simulation time by Table.
package latency

import (
	"github.com/sarchlab/akita/v4/sim"
)

// Group identifies a set of outputs that share one propagation delay.
type Group uint8

// Output groups.
const (
	GroupData     Group = iota // Y bus
	GroupFlags                 // Z, F3, C4, OVR
	GroupBoundary              // shift boundary pins
)

const secondsPerPs = 1e-12

// PsToSec converts picoseconds to akita simulation time.
func PsToSec(ps uint64) sim.VTimeInSec {
	return sim.VTimeInSec(float64(ps) * secondsPerPs)
}

// Table provides output delay lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new delay table with the default timing.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new delay table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// Delay returns the propagation delay of an output group.
func (t *Table) Delay(g Group) sim.VTimeInSec {
	switch g {
	case GroupData:
		return PsToSec(t.config.PropagationDelayPs)
	case GroupFlags:
		return PsToSec(t.config.FlagDelayPs)
	case GroupBoundary:
		return PsToSec(t.config.BoundaryDelayPs)
	default:
		return PsToSec(t.config.PropagationDelayPs)
	}
}

// MaxDelay returns the longest output delay.
func (t *Table) MaxDelay() sim.VTimeInSec {
	return PsToSec(t.config.maxDelayPs())
}

// ClockPeriod returns the datapath clock period.
func (t *Table) ClockPeriod() sim.VTimeInSec {
	return PsToSec(t.config.ClockPeriodPs)
}

// RippleSkew returns the clock skew between neighboring slices.
func (t *Table) RippleSkew() sim.VTimeInSec {
	return PsToSec(t.config.RippleSkewPs)
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}
