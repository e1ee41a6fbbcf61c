package resource

import (
	"fmt"

	"github.com/google/uuid"
)

// Profile holds the physical and technical parameters of one battery energy
// storage resource. It is treated as immutable: build it once (usually from
// config) and pass it by value.
//
// SOC values are absolute energies in MWh, not fractions.
type Profile struct {
	ID   uuid.UUID
	Name string

	CapacityMW          float64 // nameplate power
	CapacityMWh         float64 // nameplate energy
	RoundTripEfficiency float64 // fraction of charged energy recoverable on discharge, (0, 1]
	RampUpMWPerMin      float64
	RampDownMWPerMin    float64
	MinSOC              float64 // MWh
	MaxSOC              float64 // MWh
	AuxLoadMW           float64 // auxiliary load (HVAC etc)
}

// HSL is the High Sustained Limit - the maximum discharge power in MW.
func (p Profile) HSL() float64 {
	return p.CapacityMW
}

// LSL is the Low Sustained Limit - the maximum charge power in MW. By market
// convention charging is negative.
func (p Profile) LSL() float64 {
	return -p.CapacityMW
}

// DurationHours is how long the resource can sustain full discharge.
func (p Profile) DurationHours() float64 {
	return p.CapacityMWh / p.CapacityMW
}

// InvalidProfileError indicates that a profile describes a non-physical
// resource. It is fatal: plans cannot be generated from such a profile.
type InvalidProfileError struct {
	Reason string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("invalid resource profile: %s", e.Reason)
}

// Validate returns an *InvalidProfileError if the profile parameters are not
// physically sensible, or nil if they are.
func (p Profile) Validate() error {
	if p.CapacityMW <= 0 {
		return &InvalidProfileError{Reason: fmt.Sprintf("capacity must be > 0 MW, got %g", p.CapacityMW)}
	}
	if p.CapacityMWh <= 0 {
		return &InvalidProfileError{Reason: fmt.Sprintf("capacity must be > 0 MWh, got %g", p.CapacityMWh)}
	}
	if p.RoundTripEfficiency <= 0 || p.RoundTripEfficiency > 1 {
		return &InvalidProfileError{Reason: fmt.Sprintf("round trip efficiency must be in (0, 1], got %g", p.RoundTripEfficiency)}
	}
	if p.RampUpMWPerMin <= 0 || p.RampDownMWPerMin <= 0 {
		return &InvalidProfileError{Reason: "ramp rates must be > 0 MW/min"}
	}
	if p.MinSOC < 0 {
		return &InvalidProfileError{Reason: fmt.Sprintf("minimum SOC must be >= 0 MWh, got %g", p.MinSOC)}
	}
	if p.MinSOC >= p.MaxSOC {
		return &InvalidProfileError{Reason: fmt.Sprintf("minimum SOC %g must be below maximum SOC %g", p.MinSOC, p.MaxSOC)}
	}
	if p.AuxLoadMW < 0 {
		return &InvalidProfileError{Reason: fmt.Sprintf("auxiliary load must be >= 0 MW, got %g", p.AuxLoadMW)}
	}
	return nil
}
