package cop

import (
	"time"

	"github.com/google/uuid"
)

// DefaultHorizonHours is the planning horizon the market operator expects to
// be covered: 7 days of hourly records.
const DefaultHorizonHours = 168

// PlanHour is one clock hour of a Current Operating Plan.
//
// Power values are in MW and follow the market convention: positive is
// discharge to the grid, negative is charge from the grid. SOC values are
// absolute energies in MWh.
type PlanHour struct {
	HourEnding time.Time
	Status     ResourceStatus

	// Power envelope. For a storage resource the emergency limits equal the
	// sustained limits.
	HSL float64 // high sustained limit (max discharge)
	LSL float64 // low sustained limit (max charge, negative)
	HEL float64 // high emergency limit
	LEL float64 // low emergency limit

	SOCBegin float64 // planned SOC at the start of the hour
	SOCMin   float64 // working lower SOC bound for the hour
	SOCMax   float64 // working upper SOC bound for the hour

	NormalRampUp      float64 // MW/min
	NormalRampDown    float64 // MW/min
	EmergencyRampUp   float64 // MW/min
	EmergencyRampDown float64 // MW/min

	AuxLoadMW float64

	// Internal planning fields, not part of the submitted record.
	TargetMW float64
	Mode     Mode
}

// Plan is a Current Operating Plan: an ordered, contiguous sequence of hourly
// records for one resource. The generator call that produced a plan owns it
// exclusively; the validator only reads it.
type Plan struct {
	ResourceID    uuid.UUID
	ResourceName  string
	ResourceType  string
	FuelType      string
	GeneratedTime time.Time
	Hours         []PlanHour
}

// HourAt returns the plan hour whose hour-ending timestamp equals `t`, or nil
// if there is none.
func (p *Plan) HourAt(t time.Time) *PlanHour {
	for i := range p.Hours {
		if p.Hours[i].HourEnding.Equal(t) {
			return &p.Hours[i]
		}
	}
	return nil
}

// SOCSequence returns the hour-beginning SOC of every hour, in order.
func (p *Plan) SOCSequence() []float64 {
	socs := make([]float64, len(p.Hours))
	for i := range p.Hours {
		socs[i] = p.Hours[i].SOCBegin
	}
	return socs
}

// TargetSequence returns the planned power target of every hour, in order.
func (p *Plan) TargetSequence() []float64 {
	targets := make([]float64, len(p.Hours))
	for i := range p.Hours {
		targets[i] = p.Hours[i].TargetMW
	}
	return targets
}

// Clone returns a deep copy of the plan that can be mutated independently.
func (p *Plan) Clone() Plan {
	clone := *p
	clone.Hours = make([]PlanHour, len(p.Hours))
	copy(clone.Hours, p.Hours)
	return clone
}
